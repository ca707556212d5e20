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

// StudentRepository provides access to student accounts.
type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, first_name, last_name, email, matric_number, password_hash,
	level, passport_path, face_embedding, qr_code_path, created_at, updated_at`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.MatricNumber,
		&s.PasswordHash, &s.Level, &s.PassportPath, &s.FaceEmbedding, &s.QRCodePath,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return &s, nil
}

// Create inserts a student. Duplicate email and matric number map to
// their constraint-specific errors.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO students (first_name, last_name, email, matric_number, password_hash, level, passport_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+studentColumns,
		s.FirstName, s.LastName, s.Email, s.MatricNumber, s.PasswordHash, s.Level, s.PassportPath)

	created, err := scanStudent(row)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "students_email_key") {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsUniqueViolation(err, "students_matric_number_key") {
			return nil, apperrors.ErrMatricAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email)
	return scanStudent(row)
}

func (r *StudentRepository) GetByMatricNumber(ctx context.Context, matric string) (*models.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE matric_number = $1`, matric)
	return scanStudent(row)
}

// EmailExists reports whether an email is taken by either account type.
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)
		    OR EXISTS(SELECT 1 FROM lecturers WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateFaceEmbedding stores the reference embedding and passport photo
// path produced during face registration.
func (r *StudentRepository) UpdateFaceEmbedding(ctx context.Context, id int64, embedding []float64, passportPath string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE students SET face_embedding = $2, passport_path = $3, updated_at = now()
		WHERE id = $1`,
		id, embedding, passportPath)
	if err != nil {
		return fmt.Errorf("failed to update face embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdatePassportPath stores the relative path of the student's passport
// photo.
func (r *StudentRepository) UpdatePassportPath(ctx context.Context, id int64, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE students SET passport_path = $2, updated_at = now() WHERE id = $1`,
		id, path)
	if err != nil {
		return fmt.Errorf("failed to update passport path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateQRCodePath stores the relative path of the student's QR code image.
func (r *StudentRepository) UpdateQRCodePath(ctx context.Context, id int64, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE students SET qr_code_path = $2, updated_at = now() WHERE id = $1`,
		id, path)
	if err != nil {
		return fmt.Errorf("failed to update qr code path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
