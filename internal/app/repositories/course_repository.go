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

// CourseRepository provides access to courses and enrollments.
type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, code, title, level, lecturer_id, created_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Level, &c.LecturerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &c, nil
}

// Create inserts a course. A duplicate code maps to ErrCourseCodeExists
// via the courses_code_key constraint.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (code, title, level, lecturer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+courseColumns,
		c.Code, c.Title, c.Level, c.LecturerID)

	created, err := scanCourse(row)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "courses_code_key") {
			return nil, apperrors.ErrCourseCodeExists
		}
		return nil, err
	}
	return created, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

// GetOwned returns the course only if it belongs to the lecturer. Absent
// and not-owned are indistinguishable to the caller.
func (r *CourseRepository) GetOwned(ctx context.Context, courseID, lecturerID int64) (*models.Course, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1 AND lecturer_id = $2`,
		courseID, lecturerID)
	return scanCourse(row)
}

// ListByLecturer returns all courses owned by a lecturer.
func (r *CourseRepository) ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE lecturer_id = $1 ORDER BY code`,
		lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Enroll adds a student to a course; re-enrolling is a no-op.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO course_enrollments (course_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, courseID, studentID)
	if err != nil {
		return fmt.Errorf("failed to enroll student: %w", err)
	}
	return nil
}

// IsEnrolled reports whether a student is enrolled in a course.
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM course_enrollments WHERE course_id = $1 AND student_id = $2
		)`, courseID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}
