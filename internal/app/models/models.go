package models

import "time"

// Role identifies the kind of authenticated user.
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// MarkMethod records how an attendance entry was created.
type MarkMethod string

const (
	MarkedManually MarkMethod = "manual"
	MarkedByFace   MarkMethod = "face"
)

// Lecturer is a staff account that owns courses and attendance sessions.
type Lecturer struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PassportPath *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Student is a student account. FaceEmbedding is nil until a reference
// photo has been registered.
type Student struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	MatricNumber  string
	PasswordHash  string
	Level         *string
	PassportPath  *string
	FaceEmbedding []float64
	QRCodePath    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasFaceEmbedding reports whether a reference embedding is stored.
func (s *Student) HasFaceEmbedding() bool {
	return len(s.FaceEmbedding) > 0
}

// Course belongs to exactly one lecturer.
type Course struct {
	ID         int64
	Code       string
	Title      string
	Level      *string
	LecturerID int64
	CreatedAt  time.Time
}

// AttendanceSession is a window in which attendance for a course may be
// marked. A session stays active until it is explicitly closed; the
// transition is one way, and EndedAt is nil until it happens.
type AttendanceSession struct {
	ID         int64
	CourseID   int64
	LecturerID int64
	StartedAt  time.Time
	EndedAt    *time.Time
	IsActive   bool
	CreatedAt  time.Time
}

// Attendance is a single presence record. A student appears at most once
// per session. MarkedBy is the id of the lecturer who recorded it.
type Attendance struct {
	ID        int64
	StudentID int64
	SessionID int64
	CourseID  int64
	MarkedBy  int64
	Method    MarkMethod
	MarkedAt  time.Time
}

// AttendanceRecord is an attendance row joined with student and session
// details, as used by history listing and CSV export.
type AttendanceRecord struct {
	Attendance
	StudentFirstName string
	StudentLastName  string
	MatricNumber     string
	StudentEmail     string
	SessionStartedAt time.Time
	SessionEndedAt   *time.Time
}
