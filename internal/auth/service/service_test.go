package service

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "sorun_takip_backend/internal/auth/domain"
	"sorun_takip_backend/internal/auth/repository"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users map[uuid.UUID]repository.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]repository.User)}
}

func (f *fakeRepo) CreateUser(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == params.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	now := time.Now()
	user := repository.User{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		District:     params.District,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, userID uuid.UUID, firstName, lastName string, phone *string) (repository.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Phone = phone
	user.UpdatedAt = time.Now()
	f.users[userID] = user
	return user, nil
}

func (f *fakeRepo) UpdateRole(_ context.Context, userID uuid.UUID, role string) (repository.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	user.Role = role
	f.users[userID] = user
	return user, nil
}

func (f *fakeRepo) ListUsers(_ context.Context, role string, limit, offset int) ([]repository.User, error) {
	var out []repository.User
	for _, u := range f.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByRole(_ context.Context, role string) (int, error) {
	count := 0
	for _, u := range f.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string        { return "access-secret" }
func (testAuthConfig) GetJWTRefreshSecret() string       { return "refresh-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testAuthConfig) GetRefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

func newTestService(repo repository.AuthRepository) *Service {
	log := logger.New("test")
	return New(repo, testAuthConfig{}, events.NewInMemoryBus(log), log)
}

func TestRegisterCreatesCitizen(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	profile, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Email:     "Ayse.Yilmaz@Example.com",
		Phone:     "0532 123 45 67",
		Password:  "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profile.Role != auth.RoleCitizen {
		t.Errorf("role = %q, want %q", profile.Role, auth.RoleCitizen)
	}
	if profile.Email != "ayse.yilmaz@example.com" {
		t.Errorf("email not lowercased: %q", profile.Email)
	}
	if profile.Phone != "+905321234567" {
		t.Errorf("phone = %q, want E.164", profile.Phone)
	}

	stored, err := repo.GetUserByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if stored.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ali",
		LastName:  "Demir",
		Email:     "ali@example.com",
		Phone:     "not-a-phone",
		Password:  "secret123",
	})
	if !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("err = %v, want ErrInvalidPhone", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepo())

	params := RegisterParams{
		FirstName: "Ali",
		LastName:  "Demir",
		Email:     "ali@example.com",
		Password:  "secret123",
	}
	if _, err := svc.Register(context.Background(), params); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), params); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	profile, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ali",
		LastName:  "Demir",
		Email:     "ali@example.com",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	access, refresh, err := svc.Login(context.Background(), "ali@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token pair")
	}
	if access == refresh {
		t.Error("access and refresh tokens are identical")
	}

	// Access tokens must not be usable as refresh tokens.
	if _, _, err := svc.Refresh(context.Background(), access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Refresh(access) err = %v, want ErrTokenInvalid", err)
	}

	newAccess, newRefresh, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatal("empty refreshed token pair")
	}

	// A role change takes effect on the next refresh because the user is re-read.
	if _, err := svc.SetRole(context.Background(), profile.ID, auth.RoleWorker); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), newRefresh); err != nil {
		t.Fatalf("Refresh after role change: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ali",
		LastName:  "Demir",
		Email:     "ali@example.com",
		Password:  "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ali@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, _, err := svc.Refresh(context.Background(), "not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestCreateStaffKeepsRequestedRole(t *testing.T) {
	svc := newTestService(newFakeRepo())

	profile, err := svc.CreateStaff(context.Background(), CreateStaffParams{
		FirstName: "Mehmet",
		LastName:  "Kaya",
		Email:     "mehmet@belediye.gov.tr",
		Password:  "secret123",
		Role:      auth.RoleWorker,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if profile.Role != auth.RoleWorker {
		t.Errorf("role = %q, want %q", profile.Role, auth.RoleWorker)
	}
}

func TestSetRoleUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.SetRole(context.Background(), uuid.New(), auth.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
