package service

import (
	"context"
	"errors"
	"strings"
	"time"

	auth "sorun_takip_backend/internal/auth/domain"
	"sorun_takip_backend/internal/auth/repository"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidPhone = errors.New("invalid phone number")
var ErrTokenInvalid = errors.New("token invalid")
var ErrNotFound = errors.New("user not found")

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

type Service struct {
	repo     repository.AuthRepository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cfg:      cfg,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// Register creates a citizen account. Phone is optional; when present it is
// normalized to E.164 with a Turkish default region.
func (s *Service) Register(ctx context.Context, params RegisterParams) (auth.Profile, error) {
	phonePtr, err := normalizePhone(params.Phone)
	if err != nil {
		return auth.Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Profile{}, err
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:        phonePtr,
		PasswordHash: string(hash),
		Role:         auth.RoleCitizen,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return auth.Profile{}, ErrEmailTaken
		}
		return auth.Profile{}, err
	}

	profile := toProfile(user)
	s.eventBus.Publish(ctx, events.UserRegistered{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  profile.FullName(),
	})
	s.log.AuthEvent("register", user.Email, true, "")

	return profile, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return "", "", ErrInvalidCredentials
	}

	s.log.AuthEvent("login", email, true, "")
	return s.issueTokens(user)
}

// Refresh validates a refresh token and issues a fresh pair. Roles are read
// from the database so a role change takes effect on the next refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.parseToken(refreshToken, refreshTokenType, s.cfg.GetJWTRefreshSecret())
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	rawID, _ := claims["sub"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	return s.issueTokens(user)
}

// GetProfile implements auth.Directory.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Profile{}, ErrNotFound
		}
		return auth.Profile{}, err
	}
	return toProfile(user), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, rawPhone string) (auth.Profile, error) {
	phonePtr, err := normalizePhone(rawPhone)
	if err != nil {
		return auth.Profile{}, err
	}

	user, err := s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(firstName), strings.TrimSpace(lastName), phonePtr)
	if err != nil {
		return auth.Profile{}, err
	}
	return toProfile(user), nil
}

type CreateStaffParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      string
	// District is the working area for workers, empty for admins.
	District string
}

// CreateStaff creates a worker or admin account. Role validity is the
// transport layer's responsibility; this trusts its input.
func (s *Service) CreateStaff(ctx context.Context, params CreateStaffParams) (auth.Profile, error) {
	phonePtr, err := normalizePhone(params.Phone)
	if err != nil {
		return auth.Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Profile{}, err
	}

	var districtPtr *string
	if district := strings.TrimSpace(params.District); district != "" {
		districtPtr = &district
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:        phonePtr,
		PasswordHash: string(hash),
		Role:         params.Role,
		District:     districtPtr,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return auth.Profile{}, ErrEmailTaken
		}
		return auth.Profile{}, err
	}

	return toProfile(user), nil
}

func (s *Service) SetRole(ctx context.Context, userID uuid.UUID, role string) (auth.Profile, error) {
	user, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Profile{}, ErrNotFound
		}
		return auth.Profile{}, err
	}
	return toProfile(user), nil
}

func (s *Service) ListUsers(ctx context.Context, role string, limit, offset int) ([]auth.Profile, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.ListUsers(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}

	profiles := make([]auth.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, toProfile(user))
	}
	return profiles, nil
}

func (s *Service) issueTokens(user repository.User) (string, string, error) {
	accessToken, err := s.signJWT(user, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.signJWT(user, s.cfg.GetRefreshTokenTTL(), refreshTokenType, s.cfg.GetJWTRefreshSecret())
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(user repository.User, ttl time.Duration, tokenType, secret string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  tokenType,
		"roles": []string{user.Role},
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}

func (s *Service) parseToken(rawToken, wantType, secret string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// normalizePhone validates and formats an optional phone number. Empty input
// yields a nil pointer; anything that is not a valid Turkish mobile number is
// rejected.
func normalizePhone(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !phone.IsValidMobile(raw) {
		return nil, ErrInvalidPhone
	}
	normalized := phone.NormalizeE164(raw)
	return &normalized, nil
}

func toProfile(user repository.User) auth.Profile {
	profile := auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Phone != nil {
		profile.Phone = *user.Phone
	}
	if user.District != nil {
		profile.District = *user.District
	}
	return profile
}

var _ auth.Directory = (*Service)(nil)
