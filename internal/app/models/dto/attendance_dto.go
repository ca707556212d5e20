package dto

import "time"

// StartSessionRequest opens an attendance session for a course.
type StartSessionRequest struct {
	CourseID int64 `json:"courseId" binding:"required"`
}

// CloseSessionRequest closes a session by id.
type CloseSessionRequest struct {
	SessionID int64 `json:"sessionId" binding:"required"`
}

// SessionResponse is the public view of an attendance session. EndedAt is
// null while the session is still open.
type SessionResponse struct {
	ID        int64      `json:"id"`
	CourseID  int64      `json:"courseId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ValidateEnrollmentRequest checks that a student is enrolled in a course
// before the lecturer marks them.
type ValidateEnrollmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
	CourseID  int64 `json:"courseId" binding:"required"`
}

// MarkManualRequest marks a student present by explicit lecturer action.
type MarkManualRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
	CourseID  int64 `json:"courseId" binding:"required"`
	SessionID int64 `json:"sessionId" binding:"required"`
}

// MarkFaceRequest carries the identifiers for a face-verified mark; the
// probe image arrives as a multipart file.
type MarkFaceRequest struct {
	StudentID int64 `form:"studentId" binding:"required"`
	CourseID  int64 `form:"courseId" binding:"required"`
	SessionID int64 `form:"sessionId" binding:"required"`
}

// AttendanceResponse is a single presence record. MarkedBy is the id of
// the lecturer who recorded it.
type AttendanceResponse struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	SessionID int64     `json:"sessionId"`
	CourseID  int64     `json:"courseId"`
	MarkedBy  int64     `json:"markedBy"`
	Method    string    `json:"method"`
	MarkedAt  time.Time `json:"markedAt"`
}

// AttendanceRecordResponse is a presence record joined with student and
// session details, as listed in history.
type AttendanceRecordResponse struct {
	ID           int64      `json:"id"`
	StudentID    int64      `json:"studentId"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	MatricNumber string     `json:"matricNumber"`
	Email        string     `json:"email"`
	SessionID    int64      `json:"sessionId"`
	SessionStart time.Time  `json:"sessionStart"`
	SessionEnd   *time.Time `json:"sessionEnd"`
	MarkedBy     int64      `json:"markedBy"`
	Method       string     `json:"method"`
	MarkedAt     time.Time  `json:"markedAt"`
}

// HistoryResponse groups a course's attendance records.
type HistoryResponse struct {
	Course  CourseResponse             `json:"course"`
	Records []AttendanceRecordResponse `json:"records"`
}
