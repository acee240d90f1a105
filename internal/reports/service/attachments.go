package service

import (
	"context"
	"errors"

	"sorun_takip_backend/internal/adapters/storage"
	"sorun_takip_backend/internal/reports/repository"

	"github.com/google/uuid"
)

var ErrStorageDisabled = errors.New("file storage is not configured")
var ErrAttachmentNotFound = errors.New("attachment not found")

// PresignUploadResult carries the presigned URL plus the attachment record
// created for it.
type PresignUploadResult struct {
	URL        string
	Attachment repository.Attachment
}

// PresignUpload validates the photo metadata and returns a presigned PUT URL.
// Only the reporter may attach photos, and only while the report is open.
func (s *Service) PresignUpload(ctx context.Context, actor Actor, reportID uuid.UUID, fileName, contentType string, sizeBytes int64) (PresignUploadResult, error) {
	if s.storage == nil {
		return PresignUploadResult{}, ErrStorageDisabled
	}

	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PresignUploadResult{}, ErrNotFound
		}
		return PresignUploadResult{}, err
	}
	if report.ReporterID != actor.UserID && !actor.isStaff() {
		return PresignUploadResult{}, ErrForbidden
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.photosBucket, report.ID.String(), fileName, contentType, sizeBytes)
	if err != nil {
		return PresignUploadResult{}, err
	}

	attachment, err := s.repo.CreateAttachment(ctx, repository.CreateAttachmentParams{
		ReportID:    report.ID,
		FileKey:     presigned.FileKey,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		UploadedBy:  actor.UserID,
	})
	if err != nil {
		return PresignUploadResult{}, err
	}

	return PresignUploadResult{URL: presigned.URL, Attachment: attachment}, nil
}

// PresignDownload returns a presigned GET URL for an attachment on a report
// the actor can see.
func (s *Service) PresignDownload(ctx context.Context, actor Actor, attachmentID uuid.UUID) (*storage.PresignedURL, repository.Attachment, error) {
	if s.storage == nil {
		return nil, repository.Attachment{}, ErrStorageDisabled
	}

	attachment, err := s.repo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return nil, repository.Attachment{}, ErrAttachmentNotFound
		}
		return nil, repository.Attachment{}, err
	}

	report, err := s.repo.GetByID(ctx, attachment.ReportID)
	if err != nil {
		return nil, repository.Attachment{}, err
	}
	if !s.canView(ctx, actor, report) {
		return nil, repository.Attachment{}, ErrForbidden
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, s.photosBucket, attachment.FileKey)
	if err != nil {
		return nil, repository.Attachment{}, err
	}
	return presigned, attachment, nil
}

// ListAttachments returns the attachments on a report the actor can see.
func (s *Service) ListAttachments(ctx context.Context, actor Actor, reportID uuid.UUID) ([]repository.Attachment, error) {
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
	return s.repo.ListAttachments(ctx, reportID)
}

// DeleteAttachment removes a photo. The uploader or an admin may delete.
func (s *Service) DeleteAttachment(ctx context.Context, actor Actor, attachmentID uuid.UUID) error {
	attachment, err := s.repo.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	if attachment.UploadedBy != actor.UserID && !actor.isAdmin() {
		return ErrForbidden
	}

	if s.storage != nil {
		if err := s.storage.DeleteObject(ctx, s.photosBucket, attachment.FileKey); err != nil {
			s.log.Error("delete attachment object failed", "fileKey", attachment.FileKey, "error", err)
		}
	}

	return s.repo.DeleteAttachment(ctx, attachmentID)
}
