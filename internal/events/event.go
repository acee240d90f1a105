// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"sorun_takip_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new citizen successfully registers.
type UserRegistered struct {
	BaseEvent
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// =============================================================================
// Report Domain Events
// =============================================================================

// ReportCreated is published when a citizen submits a new report.
type ReportCreated struct {
	BaseEvent
	ReportID uuid.UUID `json:"reportId"`
	UserID   uuid.UUID `json:"userId"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Severity string    `json:"severity"`
	City     string    `json:"city"`
	District string    `json:"district"`
}

func (e ReportCreated) EventName() string { return "reports.report.created" }

// ReportAssigned is published when a report is assigned to a worker.
type ReportAssigned struct {
	BaseEvent
	ReportID   uuid.UUID `json:"reportId"`
	WorkerID   uuid.UUID `json:"workerId"`
	AssignedBy uuid.UUID `json:"assignedBy"`
	Title      string    `json:"title"`
}

func (e ReportAssigned) EventName() string { return "reports.report.assigned" }

// ReportStatusChanged is published on every workflow transition.
type ReportStatusChanged struct {
	BaseEvent
	ReportID       uuid.UUID `json:"reportId"`
	ReporterID     uuid.UUID `json:"reporterId"`
	ReporterEmail  string    `json:"reporterEmail"`
	Title          string    `json:"title"`
	FromStatus     string    `json:"fromStatus"`
	ToStatus       string    `json:"toStatus"`
	ChangedBy      uuid.UUID `json:"changedBy"`
	ResolutionNote string    `json:"resolutionNote,omitempty"`
}

func (e ReportStatusChanged) EventName() string { return "reports.report.status_changed" }

// ReportCommented is published when a comment is added to a report.
type ReportCommented struct {
	BaseEvent
	ReportID   uuid.UUID `json:"reportId"`
	ReporterID uuid.UUID `json:"reporterId"`
	CommentID  uuid.UUID `json:"commentId"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorRole string    `json:"authorRole"`
	Title      string    `json:"title"`
}

func (e ReportCommented) EventName() string { return "reports.report.commented" }

// StaleReportDetected is published by the scheduler when a report has been
// pending longer than the configured threshold.
type StaleReportDetected struct {
	BaseEvent
	ReportID    uuid.UUID `json:"reportId"`
	Title       string    `json:"title"`
	PendingDays int       `json:"pendingDays"`
}

func (e StaleReportDetected) EventName() string { return "reports.report.stale" }
