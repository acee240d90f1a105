package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrEmailTaken = errors.New("email already registered")

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         string
	// District is the working area for workers, nil for everyone else.
	District  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, district, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.District,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         string
	District     *string
}

func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role, district)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns+`
	`, params.FirstName, params.LastName, params.Email, params.Phone, params.PasswordHash, params.Role, params.District))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID))
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string, phone *string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, firstName, lastName, phone))
}

func (r *Repository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, role))
}

func (r *Repository) ListUsers(ctx context.Context, role string, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, role, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *Repository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM users WHERE role = $1
	`, role).Scan(&count)
	return count, err
}
