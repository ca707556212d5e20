package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lekan/attendease/internal/faceclient"
	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/csvutil"
	"github.com/lekan/attendease/internal/pkg/logger"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

// FaceMatchThreshold is the verification cutoff: a match at or above this
// distance is rejected.
const FaceMatchThreshold = 0.5

var csvHeader = []string{
	"firstName", "lastName", "matricNumber", "email",
	"sessionStart", "sessionEnd", "markedBy", "timestamp",
}

type attendanceService struct {
	students   StudentStore
	courses    CourseStore
	sessions   SessionStore
	attendance AttendanceStore
	embedder   FaceEmbedder
	matcher    *faceclient.Matcher
}

// NewAttendanceService creates the attendance marking and review service.
func NewAttendanceService(students StudentStore, courses CourseStore, sessions SessionStore, attendance AttendanceStore, embedder FaceEmbedder) AttendanceService {
	return &attendanceService{
		students:   students,
		courses:    courses,
		sessions:   sessions,
		attendance: attendance,
		embedder:   embedder,
		matcher:    faceclient.NewMatcher(faceclient.DefaultTolerance),
	}
}

// MarkManual records presence by explicit lecturer action.
func (s *attendanceService) MarkManual(ctx context.Context, lecturerID int64, req *dto.MarkManualRequest) (*dto.AttendanceResponse, error) {
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateSession(ctx, lecturerID, req.CourseID, req.SessionID); err != nil {
		return nil, err
	}

	record, err := s.attendance.Create(ctx, &models.Attendance{
		StudentID: student.ID,
		SessionID: req.SessionID,
		CourseID:  req.CourseID,
		MarkedBy:  lecturerID,
		Method:    models.MarkedManually,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("student_id", student.ID).
		Int64("session_id", req.SessionID).
		Str("method", string(models.MarkedManually)).
		Msg("Attendance marked")
	return toAttendanceResponse(record), nil
}

// MarkWithFace records presence after verifying the probe photo against
// the claimed student's stored reference embedding. The duplicate check
// runs before any face work so an already-marked student never costs an
// embedding call.
func (s *attendanceService) MarkWithFace(ctx context.Context, lecturerID int64, req *dto.MarkFaceRequest, image []byte, filename string) (*dto.AttendanceResponse, error) {
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.HasFaceEmbedding() {
		return nil, apperrors.ErrNoFaceRegistered
	}
	if _, err := s.validateSession(ctx, lecturerID, req.CourseID, req.SessionID); err != nil {
		return nil, err
	}

	already, err := s.attendance.Exists(ctx, student.ID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperrors.ErrAlreadyMarked
	}

	probe, err := s.embedder.Embed(ctx, image, filename)
	if err != nil {
		return nil, err
	}

	if err := s.verifyFace(student, probe); err != nil {
		return nil, err
	}

	record, err := s.attendance.Create(ctx, &models.Attendance{
		StudentID: student.ID,
		SessionID: req.SessionID,
		CourseID:  req.CourseID,
		MarkedBy:  lecturerID,
		Method:    models.MarkedByFace,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("student_id", student.ID).
		Int64("session_id", req.SessionID).
		Str("method", string(models.MarkedByFace)).
		Msg("Attendance marked")
	return toAttendanceResponse(record), nil
}

// verifyFace matches the probe against the claimed student's stored
// embedding only. Other students' embeddings never enter the comparison;
// verification fails when the distance is at or beyond the threshold.
func (s *attendanceService) verifyFace(student *models.Student, probe []float64) error {
	match, err := s.matcher.BestMatch(probe, []faceclient.Candidate{{
		Label:     student.MatricNumber,
		Embedding: student.FaceEmbedding,
	}})
	if err != nil {
		return apperrors.NewBadRequestError("Face descriptor could not be compared")
	}

	if match.Label != student.MatricNumber || match.Distance >= FaceMatchThreshold {
		logger.Warn().
			Int64("student_id", student.ID).
			Float64("distance", match.Distance).
			Msg("Face verification failed")
		return apperrors.NewCustomError(apperrors.ErrFaceMatchFailed,
			fmt.Sprintf("Face verification failed. Match distance: %.2f", match.Distance)).
			WithDetails(map[string]interface{}{"distance": match.Distance})
	}
	return nil
}

// validateSession ensures the course belongs to the lecturer and the
// session is the course's active one. Absent, not-owned and closed all
// report the same not-found condition.
func (s *attendanceService) validateSession(ctx context.Context, lecturerID, courseID, sessionID int64) (*models.AttendanceSession, error) {
	if _, err := s.courses.GetOwned(ctx, courseID, lecturerID); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CourseID != courseID || !session.IsActive {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// ValidateEnrollment checks that a student exists, the course belongs to
// the lecturer, and the student is enrolled in it. It is a pre-flight
// check for the marking UI; marking itself does not re-run it.
func (s *attendanceService) ValidateEnrollment(ctx context.Context, lecturerID int64, req *dto.ValidateEnrollmentRequest) error {
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return err
	}
	course, err := s.courses.GetOwned(ctx, req.CourseID, lecturerID)
	if err != nil {
		return err
	}
	enrolled, err := s.courses.IsEnrolled(ctx, course.ID, student.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

// History returns a course's attendance records for review.
func (s *attendanceService) History(ctx context.Context, lecturerID, courseID int64) (*dto.HistoryResponse, error) {
	course, err := s.courses.GetOwned(ctx, courseID, lecturerID)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttendanceRecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, dto.AttendanceRecordResponse{
			ID:           rec.ID,
			StudentID:    rec.StudentID,
			FirstName:    rec.StudentFirstName,
			LastName:     rec.StudentLastName,
			MatricNumber: rec.MatricNumber,
			Email:        rec.StudentEmail,
			SessionID:    rec.SessionID,
			SessionStart: rec.SessionStartedAt,
			SessionEnd:   rec.SessionEndedAt,
			MarkedBy:     rec.MarkedBy,
			Method:       string(rec.Method),
			MarkedAt:     rec.MarkedAt,
		})
	}
	return &dto.HistoryResponse{
		Course:  *toCourseResponse(course),
		Records: responsesOrEmpty(responses),
	}, nil
}

func responsesOrEmpty(r []dto.AttendanceRecordResponse) []dto.AttendanceRecordResponse {
	if r == nil {
		return []dto.AttendanceRecordResponse{}
	}
	return r
}

// ExportCSV renders a course's attendance history as CSV. Cells are
// sanitized against spreadsheet formula injection; an open session leaves
// the sessionEnd cell empty.
func (s *attendanceService) ExportCSV(ctx context.Context, lecturerID, courseID int64) ([]byte, string, error) {
	course, err := s.courses.GetOwned(ctx, courseID, lecturerID)
	if err != nil {
		return nil, "", err
	}
	records, err := s.attendance.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		sessionEnd := ""
		if rec.SessionEndedAt != nil {
			sessionEnd = rec.SessionEndedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			rec.StudentFirstName,
			rec.StudentLastName,
			rec.MatricNumber,
			rec.StudentEmail,
			rec.SessionStartedAt.Format(time.RFC3339),
			sessionEnd,
			strconv.FormatInt(rec.MarkedBy, 10),
			rec.MarkedAt.Format(time.RFC3339),
		})
	}

	data, err := csvutil.Marshal(csvHeader, rows)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("attendance_%s.csv", course.Code)
	return data, filename, nil
}

func toAttendanceResponse(a *models.Attendance) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:        a.ID,
		StudentID: a.StudentID,
		SessionID: a.SessionID,
		CourseID:  a.CourseID,
		MarkedBy:  a.MarkedBy,
		Method:    string(a.Method),
		MarkedAt:  a.MarkedAt,
	}
}
