package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportRepository defines the interface for report persistence.
// Services depend on this abstraction so tests can substitute fakes.
type ReportRepository interface {
	Create(ctx context.Context, params CreateReportParams) (Report, error)
	GetByID(ctx context.Context, reportID uuid.UUID) (Report, error)
	Update(ctx context.Context, reportID uuid.UUID, params UpdateReportParams) (Report, error)
	UpdateStatus(ctx context.Context, reportID uuid.UUID, status string, resolutionNote *string) (Report, error)
	AssignWorker(ctx context.Context, reportID uuid.UUID, workerID uuid.UUID) (Report, error)
	UpdateLocation(ctx context.Context, reportID uuid.UUID, city, district, address string) error
	List(ctx context.Context, params ListParams) ([]Report, int, error)
	ListUnlocated(ctx context.Context, limit int) ([]Report, error)
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]Report, error)

	AddComment(ctx context.Context, reportID, authorID uuid.UUID, authorRole, body string) (Comment, error)
	ListComments(ctx context.Context, reportID uuid.UUID) ([]Comment, error)

	CreateAttachment(ctx context.Context, params CreateAttachmentParams) (Attachment, error)
	GetAttachmentByID(ctx context.Context, id uuid.UUID) (Attachment, error)
	ListAttachments(ctx context.Context, reportID uuid.UUID) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error

	GetSummary(ctx context.Context) (Summary, error)
}

// Ensure Repository implements ReportRepository
var _ ReportRepository = (*Repository)(nil)
