// Package handler provides HTTP handlers for the reports API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/internal/reports/service"
	"sorun_takip_backend/internal/reports/transport"
	"sorun_takip_backend/platform/httpkit"
	"sorun_takip_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return service.Actor{}, false
	}
	return service.Actor{UserID: id.UserID(), Roles: id.Roles()}, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if len(req.Position) != 2 {
		httpkit.Error(c, http.StatusBadRequest, "position must be [lat, lon]", nil)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		ReporterID:   actor.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Severity:     req.Severity,
		City:         req.City,
		District:     req.District,
		Address:      req.Address,
		LocationNote: req.LocationNote,
		Latitude:     req.Position[0],
		Longitude:    req.Position[1],
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := toReportResponse(result.Report)
	resp.Warnings = result.Warnings
	httpkit.Created(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	report, err := h.svc.Get(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, toReportResponse(report))
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	params := service.ListParams{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Severity:  c.Query("severity"),
		City:      c.Query("city"),
		District:  c.Query("district"),
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	reports, total, err := h.svc.List(c.Request.Context(), actor, params)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	out := make([]transport.ReportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportResponse(rep))
	}
	httpkit.OK(c, transport.ReportListResponse{
		Reports: out,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	report, err := h.svc.Update(c.Request.Context(), actor, reportID, service.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Severity:    req.Severity,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, toReportResponse(report))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	report, err := h.svc.Transition(c.Request.Context(), actor, reportID, req.Status, req.ResolutionNote)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, toReportResponse(report))
}

func (h *Handler) Assign(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	report, err := h.svc.Assign(c.Request.Context(), actor, reportID, workerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, toReportResponse(report))
}

func (h *Handler) AddComment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	comment, err := h.svc.Comment(c.Request.Context(), actor, reportID, req.Body)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.Created(c, toCommentResponse(comment))
}

func (h *Handler) ListComments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), actor, reportID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	out := make([]transport.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, toCommentResponse(comment))
	}
	httpkit.OK(c, gin.H{"comments": out})
}

func (h *Handler) Summary(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	httpkit.OK(c, transport.SummaryResponse{
		Total:      summary.Total,
		ByStatus:   toSummaryBuckets(summary.ByStatus),
		ByCategory: toSummaryBuckets(summary.ByCategory),
		ByDistrict: toSummaryBuckets(summary.ByDistrict),
	})
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrAttachmentNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		httpkit.Error(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrImmutable):
		httpkit.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrUnknownProvince),
		errors.Is(err, service.ErrUnknownDistrict),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnknownSeverity),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrNotAWorker):
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrStorageDisabled):
		httpkit.Error(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		httpkit.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func toReportResponse(rep repository.Report) transport.ReportResponse {
	resp := transport.ReportResponse{
		ID:          rep.ID.String(),
		ReporterID:  rep.ReporterID.String(),
		Title:       rep.Title,
		Description: rep.Description,
		Category:    rep.Category,
		Severity:    rep.Severity,
		Status:      rep.Status,
		City:        rep.City,
		District:    rep.District,
		Address:     rep.Address,
		Position:    []float64{rep.Latitude, rep.Longitude},
		CreatedAt:   rep.CreatedAt,
		UpdatedAt:   rep.UpdatedAt,
	}
	if rep.LocationNote != nil {
		resp.LocationNote = *rep.LocationNote
	}
	if rep.AssignedWorkerID != nil {
		resp.AssignedWorkerID = rep.AssignedWorkerID.String()
	}
	if rep.ResolutionNote != nil {
		resp.ResolutionNote = *rep.ResolutionNote
	}
	return resp
}

func toCommentResponse(c repository.Comment) transport.CommentResponse {
	return transport.CommentResponse{
		ID:         c.ID.String(),
		ReportID:   c.ReportID.String(),
		AuthorID:   c.AuthorID.String(),
		AuthorRole: c.AuthorRole,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

func toSummaryBuckets(buckets []repository.SummaryBucket) []transport.SummaryBucket {
	out := make([]transport.SummaryBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, transport.SummaryBucket{Key: b.Key, Count: b.Count})
	}
	return out
}
