// Package reports provides the citizen issue-report bounded context.
// This file defines the module that encapsulates all report setup and route registration.
package reports

import (
	"sorun_takip_backend/internal/adapters/storage"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/internal/geocode"
	apphttp "sorun_takip_backend/internal/http"
	"sorun_takip_backend/internal/reports/handler"
	"sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/internal/reports/service"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"
	"sorun_takip_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the reports module with all its dependencies.
// The resolver, directory and store may be nil when the corresponding
// subsystem is disabled; the service degrades gracefully.
func NewModule(
	pool *pgxpool.Pool,
	resolver geocode.AddressResolver,
	directory service.UserDirectory,
	store storage.Service,
	photosBucket string,
	eventBus events.Bus,
	log *logger.Logger,
	val *validator.Validator,
	m *metrics.Metrics,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, directory, store, photosBucket, eventBus, log, m)
	h := handler.New(svc, val)

	return &Module{
		handler:    h,
		service:    svc,
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// Service returns the reports service for use by the scheduler and CLIs.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the reports repository for maintenance tooling.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts report routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Citizen-facing routes (any authenticated user)
	reports := ctx.Protected.Group("/reports")
	reports.POST("", m.handler.Create)
	reports.GET("", m.handler.List)
	reports.GET("/:id", m.handler.Get)
	reports.PATCH("/:id", m.handler.Update)
	reports.GET("/:id/comments", m.handler.ListComments)
	reports.POST("/:id/comments", m.handler.AddComment)
	reports.GET("/:id/attachments", m.handler.ListAttachments)
	reports.POST("/:id/attachments", m.handler.PresignUpload)

	// Attachment routes keyed by attachment ID live outside /reports/:id to
	// avoid route conflicts.
	attachments := ctx.Protected.Group("/attachments")
	attachments.GET("/:attachmentId/url", m.handler.PresignDownload)
	attachments.DELETE("/:attachmentId", m.handler.DeleteAttachment)

	// Staff workflow routes
	ctx.Staff.PUT("/reports/:id/status", m.handler.UpdateStatus)

	// Admin routes
	ctx.Admin.PUT("/reports/:id/assign", m.handler.Assign)
	ctx.Admin.GET("/summary", m.handler.Summary)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
