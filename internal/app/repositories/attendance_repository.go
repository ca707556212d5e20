package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/dberrors"

	"github.com/lekan/attendease/internal/app/models"
)

// AttendanceRepository provides access to attendance records.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create inserts a presence record. The attendance_student_session_key
// constraint rejects a second record for the same student and session, so
// concurrent marks cannot produce duplicates.
func (r *AttendanceRepository) Create(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance (student_id, session_id, course_id, marked_by, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, student_id, session_id, course_id, marked_by, method, marked_at`,
		a.StudentID, a.SessionID, a.CourseID, a.MarkedBy, a.Method)

	var created models.Attendance
	err := row.Scan(&created.ID, &created.StudentID, &created.SessionID,
		&created.CourseID, &created.MarkedBy, &created.Method, &created.MarkedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "attendance_student_session_key") {
			return nil, apperrors.ErrAlreadyMarked
		}
		return nil, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return &created, nil
}

// Exists reports whether a student is already marked for a session.
func (r *AttendanceRepository) Exists(ctx context.Context, studentID, sessionID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM attendance WHERE student_id = $1 AND session_id = $2
		)`, studentID, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}
	return exists, nil
}

// ListByCourse returns a course's attendance records joined with student
// and session details, newest first.
func (r *AttendanceRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.student_id, a.session_id, a.course_id, a.marked_by, a.method, a.marked_at,
		       s.first_name, s.last_name, s.matric_number, s.email,
		       sess.started_at, sess.ended_at
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		JOIN attendance_sessions sess ON sess.id = a.session_id
		WHERE a.course_id = $1
		ORDER BY a.marked_at DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		err := rows.Scan(&rec.ID, &rec.StudentID, &rec.SessionID, &rec.CourseID,
			&rec.MarkedBy, &rec.Method, &rec.MarkedAt,
			&rec.StudentFirstName, &rec.StudentLastName, &rec.MatricNumber, &rec.StudentEmail,
			&rec.SessionStartedAt, &rec.SessionEndedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
