package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/dberrors"

	"github.com/lekan/attendease/internal/app/models"
)

// LecturerRepository provides access to lecturer accounts.
type LecturerRepository struct {
	pool *pgxpool.Pool
}

func NewLecturerRepository(pool *pgxpool.Pool) *LecturerRepository {
	return &LecturerRepository{pool: pool}
}

const lecturerColumns = `id, first_name, last_name, email, password_hash, passport_path, created_at, updated_at`

func scanLecturer(row pgx.Row) (*models.Lecturer, error) {
	var l models.Lecturer
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.PasswordHash,
		&l.PassportPath, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("failed to scan lecturer: %w", err)
	}
	return &l, nil
}

// Create inserts a lecturer. A duplicate email maps to
// ErrEmailAlreadyExists via the lecturers_email_key constraint.
func (r *LecturerRepository) Create(ctx context.Context, l *models.Lecturer) (*models.Lecturer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO lecturers (first_name, last_name, email, password_hash, passport_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+lecturerColumns,
		l.FirstName, l.LastName, l.Email, l.PasswordHash, l.PassportPath)

	created, err := scanLecturer(row)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "lecturers_email_key") {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *LecturerRepository) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+lecturerColumns+` FROM lecturers WHERE id = $1`, id)
	return scanLecturer(row)
}

func (r *LecturerRepository) GetByEmail(ctx context.Context, email string) (*models.Lecturer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+lecturerColumns+` FROM lecturers WHERE email = $1`, email)
	return scanLecturer(row)
}

// EmailExists reports whether an email is taken by either account type.
func (r *LecturerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM lecturers WHERE email = $1)
		    OR EXISTS(SELECT 1 FROM students WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdatePassportPath stores the relative path of the lecturer's passport
// photo.
func (r *LecturerRepository) UpdatePassportPath(ctx context.Context, id int64, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lecturers SET passport_path = $2, updated_at = now() WHERE id = $1`,
		id, path)
	if err != nil {
		return fmt.Errorf("failed to update passport path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLecturerNotFound
	}
	return nil
}
