// Package transport defines the request and response shapes for the reports API.
package transport

import "time"

type CreateReportRequest struct {
	Title        string    `json:"title" validate:"required,min=5,max=140"`
	Description  string    `json:"description" validate:"required,min=10,max=4000"`
	Category     string    `json:"category" validate:"required"`
	Severity     string    `json:"severity" validate:"required"`
	City         string    `json:"city" validate:"omitempty,max=64"`
	District     string    `json:"district" validate:"omitempty,max=64"`
	Address      string    `json:"address" validate:"omitempty,max=512"`
	LocationNote string    `json:"locationNote" validate:"omitempty,max=512"`
	Position     []float64 `json:"position" validate:"required,len=2"`
}

type UpdateReportRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=140"`
	Description string `json:"description" validate:"required,min=10,max=4000"`
	Category    string `json:"category" validate:"required"`
	Severity    string `json:"severity" validate:"required"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	ResolutionNote string `json:"resolutionNote" validate:"omitempty,max=2000"`
}

type AssignRequest struct {
	WorkerID string `json:"workerId" validate:"required,uuid"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type ReportResponse struct {
	ID               string    `json:"id"`
	ReporterID       string    `json:"reporterId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Severity         string    `json:"severity"`
	Status           string    `json:"status"`
	City             string    `json:"city"`
	District         string    `json:"district"`
	Address          string    `json:"address"`
	LocationNote     string    `json:"locationNote,omitempty"`
	Position         []float64 `json:"position"`
	AssignedWorkerID string    `json:"assignedWorkerId,omitempty"`
	ResolutionNote   string    `json:"resolutionNote,omitempty"`
	Warnings         []string  `json:"warnings,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"reportId"`
	AuthorID   string    `json:"authorId"`
	AuthorRole string    `json:"authorRole"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"reportId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PresignUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type PresignUploadResponse struct {
	UploadURL    string `json:"uploadUrl"`
	FileKey      string `json:"fileKey"`
	AttachmentID string `json:"attachmentId"`
}

type PresignDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

type SummaryBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type SummaryResponse struct {
	Total      int             `json:"total"`
	ByStatus   []SummaryBucket `json:"byStatus"`
	ByCategory []SummaryBucket `json:"byCategory"`
	ByDistrict []SummaryBucket `json:"byDistrict"`
}
