// Package service implements the reports workflow: creation with geocode
// fill, role-scoped listing, status transitions, assignment, comments and
// attachments.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sorun_takip_backend/internal/adapters/storage"
	auth "sorun_takip_backend/internal/auth/domain"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/internal/gazetteer"
	"sorun_takip_backend/internal/geocode"
	"sorun_takip_backend/internal/reports/domain"
	"sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("report not found")
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrImmutable         = errors.New("report can no longer be edited")
	ErrNotAWorker        = errors.New("assignee is not a worker")
	ErrUnknownProvince   = errors.New("city is not a known province")
	ErrUnknownDistrict   = errors.New("district is not in the selected province")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownSeverity   = errors.New("unknown severity")
	ErrUnknownStatus     = errors.New("unknown status")
)

// UserInfo is the slice of a user profile the reports workflow needs.
type UserInfo struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Role     string
	District string
}

// UserDirectory looks up users from the auth context. Implemented by an
// adapter over the auth service.
type UserDirectory interface {
	GetUser(ctx context.Context, userID uuid.UUID) (UserInfo, error)
}

// Actor is the authenticated caller of a reports operation.
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

func (a Actor) hasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) isAdmin() bool {
	return a.hasRole(auth.RoleAdmin) || a.hasRole(auth.RoleSuperadmin)
}

func (a Actor) isWorker() bool {
	return a.hasRole(auth.RoleWorker)
}

func (a Actor) isStaff() bool {
	return a.isWorker() || a.isAdmin()
}

type Service struct {
	repo         repository.ReportRepository
	resolver     geocode.AddressResolver
	directory    UserDirectory
	storage      storage.Service
	photosBucket string
	eventBus     events.Bus
	log          *logger.Logger
	metrics      *metrics.Metrics
}

func New(repo repository.ReportRepository, resolver geocode.AddressResolver, directory UserDirectory, store storage.Service, photosBucket string, eventBus events.Bus, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:         repo,
		resolver:     resolver,
		directory:    directory,
		storage:      store,
		photosBucket: photosBucket,
		eventBus:     eventBus,
		log:          log,
		metrics:      m,
	}
}

type CreateParams struct {
	ReporterID   uuid.UUID
	Title        string
	Description  string
	Category     string
	Severity     string
	City         string
	District     string
	Address      string
	LocationNote string
	Latitude     float64
	Longitude    float64
}

// CreateResult bundles the stored report with soft warnings the client should
// surface but which never block submission.
type CreateResult struct {
	Report   repository.Report
	Warnings []string
}

// Create validates and stores a new report. Empty city, district and address
// are filled from reverse geocoding when possible; user-provided values are
// never overwritten.
func (s *Service) Create(ctx context.Context, params CreateParams) (CreateResult, error) {
	if !domain.IsKnownCategory(params.Category) {
		return CreateResult{}, ErrUnknownCategory
	}
	if !domain.IsKnownSeverity(params.Severity) {
		return CreateResult{}, ErrUnknownSeverity
	}

	var warnings []string

	city := strings.TrimSpace(params.City)
	district := strings.TrimSpace(params.District)
	address := strings.TrimSpace(params.Address)

	if (city == "" || district == "" || address == "") && s.resolver != nil {
		merged, err := s.resolver.Resolve(ctx, params.Latitude, params.Longitude)
		if err != nil {
			warnings = append(warnings, "address lookup failed, entered values were used as-is")
			s.log.Warn("geocode fill failed", "lat", params.Latitude, "lon", params.Longitude, "error", err)
		} else {
			if city == "" {
				city = merged.City
			}
			if district == "" {
				district = merged.District
			}
			if address == "" {
				address = merged.FullAddress
			}
		}
	}

	if province, ok := gazetteer.MatchProvince(city); ok {
		city = province
	} else {
		return CreateResult{}, ErrUnknownProvince
	}
	if canonical, ok := gazetteer.MatchDistrict(city, district); ok {
		district = canonical
	} else {
		return CreateResult{}, ErrUnknownDistrict
	}
	if address == "" {
		// The pinned coordinate is authoritative; a missing street address
		// degrades to the district so submission is never blocked by a
		// provider outage.
		address = district + ", " + city
		warnings = append(warnings, "street address could not be resolved, district centre was recorded")
	}

	var locationNote *string
	if note := strings.TrimSpace(params.LocationNote); note != "" {
		locationNote = &note
	}

	report, err := s.repo.Create(ctx, repository.CreateReportParams{
		ReporterID:   params.ReporterID,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Category:     params.Category,
		Severity:     params.Severity,
		City:         city,
		District:     district,
		Address:      address,
		LocationNote: locationNote,
		Latitude:     params.Latitude,
		Longitude:    params.Longitude,
	})
	if err != nil {
		return CreateResult{}, fmt.Errorf("create report: %w", err)
	}

	s.metrics.ReportsCreated.WithLabelValues(report.Category).Inc()
	s.eventBus.Publish(ctx, events.ReportCreated{
		BaseEvent: events.NewBaseEvent(),
		ReportID:  report.ID,
		UserID:    report.ReporterID,
		Title:     report.Title,
		Category:  report.Category,
		Severity:  report.Severity,
		City:      report.City,
		District:  report.District,
	})

	return CreateResult{Report: report, Warnings: warnings}, nil
}

// Get returns a report if the actor is allowed to see it.
func (s *Service) Get(ctx context.Context, actor Actor, reportID uuid.UUID) (repository.Report, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Report{}, ErrNotFound
		}
		return repository.Report{}, err
	}
	if !s.canView(ctx, actor, report) {
		return repository.Report{}, ErrForbidden
	}
	return report, nil
}

func (s *Service) canView(ctx context.Context, actor Actor, report repository.Report) bool {
	if actor.isAdmin() {
		return true
	}
	if report.ReporterID == actor.UserID {
		return true
	}
	if actor.isWorker() {
		if report.AssignedWorkerID != nil && *report.AssignedWorkerID == actor.UserID {
			return true
		}
		if district := s.workerDistrict(ctx, actor); district != "" && district == report.District {
			return true
		}
	}
	return false
}

// workerDistrict returns the worker's assigned district, or empty when none
// is stored. Workers without a district see only their assignments.
func (s *Service) workerDistrict(ctx context.Context, actor Actor) string {
	if s.directory == nil {
		return ""
	}
	user, err := s.directory.GetUser(ctx, actor.UserID)
	if err != nil {
		return ""
	}
	return user.District
}

type ListParams struct {
	Status    string
	Category  string
	Severity  string
	City      string
	District  string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// List returns reports visible to the actor. Citizens see their own reports,
// workers their assignments, admins everything.
func (s *Service) List(ctx context.Context, actor Actor, params ListParams) ([]repository.Report, int, error) {
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	repoParams := repository.ListParams{
		Limit:     params.Limit,
		Offset:    params.Offset,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	}
	if params.Status != "" {
		if !domain.IsKnownStatus(params.Status) {
			return nil, 0, ErrUnknownStatus
		}
		repoParams.Status = &params.Status
	}
	if params.Category != "" {
		repoParams.Category = &params.Category
	}
	if params.Severity != "" {
		repoParams.Severity = &params.Severity
	}
	if params.City != "" {
		repoParams.City = &params.City
	}
	if params.District != "" {
		repoParams.District = &params.District
	}

	switch {
	case actor.isAdmin():
		// No extra scoping.
	case actor.isWorker():
		if district := s.workerDistrict(ctx, actor); district != "" {
			repoParams.WorkerScope = &repository.WorkerScope{WorkerID: actor.UserID, District: district}
		} else {
			workerID := actor.UserID
			repoParams.AssignedWorkerID = &workerID
		}
	default:
		reporterID := actor.UserID
		repoParams.ReporterID = &reporterID
	}

	return s.repo.List(ctx, repoParams)
}

type UpdateParams struct {
	Title       string
	Description string
	Category    string
	Severity    string
}

// Update lets the reporter edit title, description, category and severity
// while the report is still pending.
func (s *Service) Update(ctx context.Context, actor Actor, reportID uuid.UUID, params UpdateParams) (repository.Report, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Report{}, ErrNotFound
		}
		return repository.Report{}, err
	}

	if report.ReporterID != actor.UserID {
		return repository.Report{}, ErrForbidden
	}
	if report.Status != domain.StatusPending {
		return repository.Report{}, ErrImmutable
	}
	if !domain.IsKnownCategory(params.Category) {
		return repository.Report{}, ErrUnknownCategory
	}
	if !domain.IsKnownSeverity(params.Severity) {
		return repository.Report{}, ErrUnknownSeverity
	}

	return s.repo.Update(ctx, reportID, repository.UpdateReportParams{
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Category:    params.Category,
		Severity:    params.Severity,
	})
}

// Transition moves a report along the workflow. Workers may only move reports
// assigned to them; admins may perform any permitted transition.
func (s *Service) Transition(ctx context.Context, actor Actor, reportID uuid.UUID, toStatus, resolutionNote string) (repository.Report, error) {
	if !domain.IsKnownStatus(toStatus) {
		return repository.Report{}, ErrUnknownStatus
	}

	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Report{}, ErrNotFound
		}
		return repository.Report{}, err
	}

	switch {
	case actor.isAdmin():
		// Any permitted transition.
	case actor.isWorker():
		if report.AssignedWorkerID == nil || *report.AssignedWorkerID != actor.UserID {
			return repository.Report{}, ErrForbidden
		}
	default:
		return repository.Report{}, ErrForbidden
	}

	if !domain.CanTransition(report.Status, toStatus) {
		return repository.Report{}, ErrInvalidTransition
	}

	var notePtr *string
	if note := strings.TrimSpace(resolutionNote); note != "" {
		notePtr = &note
	}

	updated, err := s.repo.UpdateStatus(ctx, reportID, toStatus, notePtr)
	if err != nil {
		return repository.Report{}, err
	}

	s.metrics.StatusTransitions.WithLabelValues(report.Status, toStatus).Inc()

	reporterEmail := ""
	if s.directory != nil {
		if reporter, err := s.directory.GetUser(ctx, report.ReporterID); err == nil {
			reporterEmail = reporter.Email
		}
	}

	s.eventBus.Publish(ctx, events.ReportStatusChanged{
		BaseEvent:      events.NewBaseEvent(),
		ReportID:       report.ID,
		ReporterID:     report.ReporterID,
		ReporterEmail:  reporterEmail,
		Title:          report.Title,
		FromStatus:     report.Status,
		ToStatus:       toStatus,
		ChangedBy:      actor.UserID,
		ResolutionNote: strings.TrimSpace(resolutionNote),
	})

	return updated, nil
}

// Assign attaches a worker to a report. Admin only; the assignee must hold
// the worker role.
func (s *Service) Assign(ctx context.Context, actor Actor, reportID, workerID uuid.UUID) (repository.Report, error) {
	if !actor.isAdmin() {
		return repository.Report{}, ErrForbidden
	}

	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Report{}, ErrNotFound
		}
		return repository.Report{}, err
	}
	if domain.IsTerminalStatus(report.Status) {
		return repository.Report{}, ErrInvalidTransition
	}

	if s.directory != nil {
		worker, err := s.directory.GetUser(ctx, workerID)
		if err != nil {
			return repository.Report{}, ErrNotAWorker
		}
		if worker.Role != auth.RoleWorker {
			return repository.Report{}, ErrNotAWorker
		}
	}

	updated, err := s.repo.AssignWorker(ctx, reportID, workerID)
	if err != nil {
		return repository.Report{}, err
	}

	s.eventBus.Publish(ctx, events.ReportAssigned{
		BaseEvent:  events.NewBaseEvent(),
		ReportID:   report.ID,
		WorkerID:   workerID,
		AssignedBy: actor.UserID,
		Title:      report.Title,
	})

	return updated, nil
}

// Comment adds a comment. The reporter may comment on their own report, staff
// on any report they can see.
func (s *Service) Comment(ctx context.Context, actor Actor, reportID uuid.UUID, body string) (repository.Comment, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Comment{}, ErrNotFound
		}
		return repository.Comment{}, err
	}
	if !s.canView(ctx, actor, report) {
		return repository.Comment{}, ErrForbidden
	}

	authorRole := auth.RoleCitizen
	for _, role := range []string{auth.RoleSuperadmin, auth.RoleAdmin, auth.RoleWorker} {
		if actor.hasRole(role) {
			authorRole = role
			break
		}
	}

	comment, err := s.repo.AddComment(ctx, reportID, actor.UserID, authorRole, strings.TrimSpace(body))
	if err != nil {
		return repository.Comment{}, err
	}

	s.eventBus.Publish(ctx, events.ReportCommented{
		BaseEvent:  events.NewBaseEvent(),
		ReportID:   report.ID,
		ReporterID: report.ReporterID,
		CommentID:  comment.ID,
		AuthorID:   actor.UserID,
		AuthorRole: authorRole,
		Title:      report.Title,
	})

	return comment, nil
}

// ListComments returns all comments on a report the actor can see.
func (s *Service) ListComments(ctx context.Context, actor Actor, reportID uuid.UUID) ([]repository.Comment, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.canView(ctx, actor, report) {
		return nil, ErrForbidden
	}
	return s.repo.ListComments(ctx, reportID)
}

// Summary returns the admin dashboard counts.
func (s *Service) Summary(ctx context.Context, actor Actor) (repository.Summary, error) {
	if !actor.isAdmin() {
		return repository.Summary{}, ErrForbidden
	}
	return s.repo.GetSummary(ctx)
}
