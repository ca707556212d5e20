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

// SessionRepository provides access to attendance sessions.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, course_id, lecturer_id, started_at, ended_at, is_active, created_at`

func scanSession(row pgx.Row) (*models.AttendanceSession, error) {
	var s models.AttendanceSession
	err := row.Scan(&s.ID, &s.CourseID, &s.LecturerID, &s.StartedAt, &s.EndedAt,
		&s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return &s, nil
}

// Create opens a session. The attendance_sessions_one_active partial
// unique index rejects a second active session for the same course, so
// two concurrent opens cannot both succeed.
func (r *SessionRepository) Create(ctx context.Context, s *models.AttendanceSession) (*models.AttendanceSession, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_sessions (course_id, lecturer_id, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING `+sessionColumns,
		s.CourseID, s.LecturerID)

	created, err := scanSession(row)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "attendance_sessions_one_active") {
			return nil, apperrors.ErrSessionAlreadyActive
		}
		return nil, err
	}
	return created, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.AttendanceSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM attendance_sessions WHERE id = $1`, id)
	return scanSession(row)
}

// Close deactivates a session and stamps its end time. Closing a session
// that is not active, or not owned by the lecturer, reports
// ErrSessionNotFound; the transition is one way.
func (r *SessionRepository) Close(ctx context.Context, sessionID, lecturerID int64) (*models.AttendanceSession, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE attendance_sessions SET is_active = FALSE, ended_at = now()
		WHERE id = $1 AND lecturer_id = $2 AND is_active
		RETURNING `+sessionColumns,
		sessionID, lecturerID)
	return scanSession(row)
}

// ListByCourse returns all sessions of a course, newest first.
func (r *SessionRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.AttendanceSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM attendance_sessions
		WHERE course_id = $1 ORDER BY started_at DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
