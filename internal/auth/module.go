// Package auth provides the authentication and user management bounded context.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"sorun_takip_backend/internal/auth/handler"
	"sorun_takip_backend/internal/auth/repository"
	"sorun_takip_backend/internal/auth/service"
	"sorun_takip_backend/internal/events"
	apphttp "sorun_takip_backend/internal/http"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for use by adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/register", m.handler.Register)
	authGroup.POST("/login", m.handler.Login)
	authGroup.POST("/refresh", m.handler.Refresh)

	// Protected user routes
	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.PATCH("/users/me", m.handler.UpdateMe)

	// Admin routes
	ctx.Admin.GET("/users", m.handler.ListUsers)
	ctx.Admin.POST("/users", m.handler.CreateStaff)
	ctx.Admin.PUT("/users/:id/role", m.handler.SetRole)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
