// Package repository provides Postgres persistence for the reports bounded context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("report not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Report struct {
	ID               uuid.UUID
	ReporterID       uuid.UUID
	Title            string
	Description      string
	Category         string
	Severity         string
	Status           string
	City             string
	District         string
	Address          string
	LocationNote     *string
	Latitude         float64
	Longitude        float64
	AssignedWorkerID *uuid.UUID
	ResolutionNote   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const reportColumns = `id, reporter_id, title, description, category, severity, status,
	city, district, address, location_note, latitude, longitude,
	assigned_worker_id, resolution_note, created_at, updated_at`

func scanReport(row pgx.Row) (Report, error) {
	var rep Report
	err := row.Scan(
		&rep.ID, &rep.ReporterID, &rep.Title, &rep.Description, &rep.Category, &rep.Severity, &rep.Status,
		&rep.City, &rep.District, &rep.Address, &rep.LocationNote, &rep.Latitude, &rep.Longitude,
		&rep.AssignedWorkerID, &rep.ResolutionNote, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	return rep, err
}

type CreateReportParams struct {
	ReporterID   uuid.UUID
	Title        string
	Description  string
	Category     string
	Severity     string
	City         string
	District     string
	Address      string
	LocationNote *string
	Latitude     float64
	Longitude    float64
}

func (r *Repository) Create(ctx context.Context, params CreateReportParams) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reports (
			reporter_id, title, description, category, severity, status,
			city, district, address, location_note, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7, $8, $9, $10, $11)
		RETURNING `+reportColumns,
		params.ReporterID, params.Title, params.Description, params.Category, params.Severity,
		params.City, params.District, params.Address, params.LocationNote, params.Latitude, params.Longitude,
	)
	return scanReport(row)
}

func (r *Repository) GetByID(ctx context.Context, reportID uuid.UUID) (Report, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, reportID)
	return scanReport(row)
}

type UpdateReportParams struct {
	Title       string
	Description string
	Category    string
	Severity    string
}

// Update rewrites the author-editable fields. Callers enforce that only the
// reporter may do this and only while the report is pending.
func (r *Repository) Update(ctx context.Context, reportID uuid.UUID, params UpdateReportParams) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE reports
		SET title = $2, description = $3, category = $4, severity = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns,
		reportID, params.Title, params.Description, params.Category, params.Severity,
	)
	return scanReport(row)
}

func (r *Repository) UpdateStatus(ctx context.Context, reportID uuid.UUID, status string, resolutionNote *string) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE reports
		SET status = $2, resolution_note = COALESCE($3, resolution_note), updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns,
		reportID, status, resolutionNote,
	)
	return scanReport(row)
}

func (r *Repository) AssignWorker(ctx context.Context, reportID uuid.UUID, workerID uuid.UUID) (Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE reports
		SET assigned_worker_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns,
		reportID, workerID,
	)
	return scanReport(row)
}

// UpdateLocation fills location fields. Used by the geocode backfill CLI.
func (r *Repository) UpdateLocation(ctx context.Context, reportID uuid.UUID, city, district, address string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reports
		SET city = $2, district = $3, address = $4, updated_at = now()
		WHERE id = $1
	`, reportID, city, district, address)
	return err
}

type ListParams struct {
	ReporterID       *uuid.UUID
	AssignedWorkerID *uuid.UUID
	District         *string
	City             *string
	Status           *string
	Category         *string
	Severity         *string
	// WorkerScope widens the filter to assignment OR district for workers.
	WorkerScope *WorkerScope
	Limit       int
	Offset      int
	SortBy      string
	SortOrder   string
}

// WorkerScope restricts listings to a worker's assignments plus reports in
// their district.
type WorkerScope struct {
	WorkerID uuid.UUID
	District string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Report, int, error) {
	whereClause, args, argIdx := buildReportListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapReportSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM reports
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, reportColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.ID, &rep.ReporterID, &rep.Title, &rep.Description, &rep.Category, &rep.Severity, &rep.Status,
			&rep.City, &rep.District, &rep.Address, &rep.LocationNote, &rep.Latitude, &rep.Longitude,
			&rep.AssignedWorkerID, &rep.ResolutionNote, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		reports = append(reports, rep)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return reports, total, nil
}

func buildReportListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.ReporterID != nil {
		addEquals("reporter_id", *params.ReporterID)
	}
	if params.AssignedWorkerID != nil {
		addEquals("assigned_worker_id", *params.AssignedWorkerID)
	}
	if params.WorkerScope != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("(assigned_worker_id = $%d OR district = $%d)", argIdx, argIdx+1))
		args = append(args, params.WorkerScope.WorkerID, params.WorkerScope.District)
		argIdx += 2
	}
	if params.Status != nil {
		addEquals("status", *params.Status)
	}
	if params.Category != nil {
		addEquals("category", *params.Category)
	}
	if params.Severity != nil {
		addEquals("severity", *params.Severity)
	}
	if params.City != nil {
		addEquals("city", *params.City)
	}
	if params.District != nil {
		addEquals("district", *params.District)
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapReportSortColumn(sortBy string) string {
	switch sortBy {
	case "updatedAt":
		return "updated_at"
	case "severity":
		return "severity"
	case "status":
		return "status"
	default:
		return "created_at"
	}
}

// ListUnlocated returns reports that have coordinates but no resolved city or
// district. Used by the geocode backfill CLI.
func (r *Repository) ListUnlocated(ctx context.Context, limit int) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE (city = '' OR district = '')
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.ID, &rep.ReporterID, &rep.Title, &rep.Description, &rep.Category, &rep.Severity, &rep.Status,
			&rep.City, &rep.District, &rep.Address, &rep.LocationNote, &rep.Latitude, &rep.Longitude,
			&rep.AssignedWorkerID, &rep.ResolutionNote, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// ListStalePending returns pending reports older than the cutoff. Used by the
// scheduler's stale-report scan.
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.ID, &rep.ReporterID, &rep.Title, &rep.Description, &rep.Category, &rep.Severity, &rep.Status,
			&rep.City, &rep.District, &rep.Address, &rep.LocationNote, &rep.Latitude, &rep.Longitude,
			&rep.AssignedWorkerID, &rep.ResolutionNote, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
