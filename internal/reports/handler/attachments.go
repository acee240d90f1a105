package handler

import (
	"net/http"

	"sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/internal/reports/service"
	"sorun_takip_backend/internal/reports/transport"
	"sorun_takip_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PresignUpload handles POST /reports/:id/attachments. It validates the photo
// metadata and hands back a presigned PUT URL the client uploads to directly.
func (h *Handler) PresignUpload(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.PresignUpload(c.Request.Context(), actor, reportID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		h.writePresignError(c, err)
		return
	}

	httpkit.Created(c, transport.PresignUploadResponse{
		UploadURL:    result.URL,
		FileKey:      result.Attachment.FileKey,
		AttachmentID: result.Attachment.ID.String(),
	})
}

// PresignDownload handles GET /reports/attachments/:attachmentId/url.
func (h *Handler) PresignDownload(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	presigned, attachment, err := h.svc.PresignDownload(c.Request.Context(), actor, attachmentID)
	if err != nil {
		h.writePresignError(c, err)
		return
	}

	httpkit.OK(c, transport.PresignDownloadResponse{
		DownloadURL: presigned.URL,
		FileName:    attachment.FileName,
	})
}

func (h *Handler) ListAttachments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	attachments, err := h.svc.ListAttachments(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	out := make([]transport.AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		out = append(out, toAttachmentResponse(att))
	}
	httpkit.OK(c, gin.H{"attachments": out})
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.DeleteAttachment(c.Request.Context(), actor, attachmentID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"message": "attachment deleted"})
}

// writePresignError maps storage validation failures to 400 instead of 500.
func (h *Handler) writePresignError(c *gin.Context, err error) {
	switch err {
	case service.ErrNotFound, service.ErrAttachmentNotFound,
		service.ErrForbidden, service.ErrStorageDisabled:
		h.writeServiceError(c, err)
	default:
		// Content-type and size validation errors come back as plain errors.
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	}
}

func toAttachmentResponse(att repository.Attachment) transport.AttachmentResponse {
	return transport.AttachmentResponse{
		ID:          att.ID.String(),
		ReportID:    att.ReportID.String(),
		FileName:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
		CreatedAt:   att.CreatedAt,
	}
}
