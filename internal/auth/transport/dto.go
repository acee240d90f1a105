package transport

import "time"

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName" validate:"required,min=2,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=10,max=20"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	District  string    `json:"district,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName" validate:"required,min=2,max=64"`
	Phone     string `json:"phone" validate:"omitempty,min=10,max=20"`
}

type CreateStaffRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName" validate:"required,min=2,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=10,max=20"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=worker admin"`
	District  string `json:"district" validate:"omitempty,max=64"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=citizen worker admin superadmin"`
}
