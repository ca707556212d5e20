package services

import (
	"context"

	"github.com/lekan/attendease/internal/pkg/logger"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

type sessionService struct {
	courses  CourseStore
	sessions SessionStore
}

// NewSessionService creates the attendance session service.
func NewSessionService(courses CourseStore, sessions SessionStore) SessionService {
	return &sessionService{
		courses:  courses,
		sessions: sessions,
	}
}

// StartSession opens an attendance window for a course the lecturer owns.
// The session stays open until it is explicitly closed. The store rejects
// a second active session for the same course, so two concurrent opens
// cannot both succeed.
func (s *sessionService) StartSession(ctx context.Context, lecturerID int64, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	course, err := s.courses.GetOwned(ctx, req.CourseID, lecturerID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, &models.AttendanceSession{
		CourseID:   course.ID,
		LecturerID: lecturerID,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("session_id", session.ID).
		Int64("course_id", course.ID).
		Msg("Attendance session started")
	return toSessionResponse(session), nil
}

// CloseSession deactivates a session the lecturer owns and stamps its end
// time. A second close reports that no active session exists; reopening
// is not possible.
func (s *sessionService) CloseSession(ctx context.Context, lecturerID, sessionID int64) (*dto.SessionResponse, error) {
	session, err := s.sessions.Close(ctx, sessionID, lecturerID)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("session_id", session.ID).
		Int64("course_id", session.CourseID).
		Msg("Attendance session closed")
	return toSessionResponse(session), nil
}

func (s *sessionService) ListSessions(ctx context.Context, lecturerID, courseID int64) ([]*dto.SessionResponse, error) {
	if _, err := s.courses.GetOwned(ctx, courseID, lecturerID); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, toSessionResponse(sess))
	}
	return responses, nil
}

func toSessionResponse(s *models.AttendanceSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:        s.ID,
		CourseID:  s.CourseID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}
