// Package handler provides HTTP handlers for authentication and user management.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	auth "sorun_takip_backend/internal/auth/domain"
	"sorun_takip_backend/internal/auth/service"
	"sorun_takip_backend/internal/auth/transport"
	"sorun_takip_backend/platform/httpkit"
	"sorun_takip_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpkit.Error(c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrInvalidPhone):
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			httpkit.Error(c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}

	httpkit.Created(c, toProfileResponse(profile))
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	accessToken, refreshToken, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	accessToken, refreshToken, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, service.ErrTokenInvalid.Error(), nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (h *Handler) GetMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), id.UserID())
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, service.ErrNotFound.Error(), nil)
		return
	}

	httpkit.OK(c, toProfileResponse(profile))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), id.UserID(), req.FirstName, req.LastName, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
		default:
			httpkit.Error(c, http.StatusInternalServerError, "profile update failed", nil)
		}
		return
	}

	httpkit.OK(c, toProfileResponse(profile))
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req transport.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.CreateStaff(c.Request.Context(), service.CreateStaffParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
		District:  req.District,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpkit.Error(c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrInvalidPhone):
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			httpkit.Error(c, http.StatusInternalServerError, "staff creation failed", nil)
		}
		return
	}

	httpkit.Created(c, toProfileResponse(profile))
}

// SetRole changes a user's role. Granting superadmin requires the caller to
// already hold it.
func (h *Handler) SetRole(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if req.Role == auth.RoleSuperadmin && !id.HasRole(auth.RoleSuperadmin) {
		httpkit.Error(c, http.StatusForbidden, "only a superadmin can grant superadmin", nil)
		return
	}

	profile, err := h.svc.SetRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "role update failed", nil)
		return
	}

	httpkit.OK(c, toProfileResponse(profile))
}

func (h *Handler) ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !auth.IsValidRole(role) {
		httpkit.Error(c, http.StatusBadRequest, "unknown role filter", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	profiles, err := h.svc.ListUsers(c.Request.Context(), role, limit, offset)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "user listing failed", nil)
		return
	}

	out := make([]transport.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	httpkit.OK(c, gin.H{"users": out, "count": len(out)})
}

func toProfileResponse(p auth.Profile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:        p.ID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      p.Role,
		District:  p.District,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
