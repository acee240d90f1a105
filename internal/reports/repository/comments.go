package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCommentNotFound = errors.New("comment not found")

type Comment struct {
	ID         uuid.UUID
	ReportID   uuid.UUID
	AuthorID   uuid.UUID
	AuthorRole string
	Body       string
	CreatedAt  time.Time
}

func (r *Repository) AddComment(ctx context.Context, reportID, authorID uuid.UUID, authorRole, body string) (Comment, error) {
	var c Comment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO report_comments (report_id, author_id, author_role, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, report_id, author_id, author_role, body, created_at
	`, reportID, authorID, authorRole, body).Scan(
		&c.ID, &c.ReportID, &c.AuthorID, &c.AuthorRole, &c.Body, &c.CreatedAt,
	)
	return c, err
}

func (r *Repository) ListComments(ctx context.Context, reportID uuid.UUID) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, report_id, author_id, author_role, body, created_at
		FROM report_comments
		WHERE report_id = $1
		ORDER BY created_at ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ReportID, &c.AuthorID, &c.AuthorRole, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *Repository) GetComment(ctx context.Context, commentID uuid.UUID) (Comment, error) {
	var c Comment
	err := r.pool.QueryRow(ctx, `
		SELECT id, report_id, author_id, author_role, body, created_at
		FROM report_comments
		WHERE id = $1
	`, commentID).Scan(&c.ID, &c.ReportID, &c.AuthorID, &c.AuthorRole, &c.Body, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrCommentNotFound
	}
	return c, err
}
