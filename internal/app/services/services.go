package services

import (
	"context"
	"mime/multipart"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

// Store interfaces declare the persistence surface each service needs.
// The concrete repositories satisfy them; tests substitute fakes.

type LecturerStore interface {
	Create(ctx context.Context, l *models.Lecturer) (*models.Lecturer, error)
	GetByID(ctx context.Context, id int64) (*models.Lecturer, error)
	GetByEmail(ctx context.Context, email string) (*models.Lecturer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassportPath(ctx context.Context, id int64, path string) error
}

type StudentStore interface {
	Create(ctx context.Context, s *models.Student) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByMatricNumber(ctx context.Context, matric string) (*models.Student, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateFaceEmbedding(ctx context.Context, id int64, embedding []float64, passportPath string) error
	UpdatePassportPath(ctx context.Context, id int64, path string) error
	UpdateQRCodePath(ctx context.Context, id int64, path string) error
}

type CourseStore interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetOwned(ctx context.Context, courseID, lecturerID int64) (*models.Course, error)
	ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.Course, error)
	Enroll(ctx context.Context, courseID, studentID int64) error
	IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.AttendanceSession) (*models.AttendanceSession, error)
	GetByID(ctx context.Context, id int64) (*models.AttendanceSession, error)
	Close(ctx context.Context, sessionID, lecturerID int64) (*models.AttendanceSession, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.AttendanceSession, error)
}

type AttendanceStore interface {
	Create(ctx context.Context, a *models.Attendance) (*models.Attendance, error)
	Exists(ctx context.Context, studentID, sessionID int64) (bool, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.AttendanceRecord, error)
}

// FaceEmbedder extracts a face descriptor from an image.
type FaceEmbedder interface {
	Embed(ctx context.Context, image []byte, filename string) ([]float64, error)
}

// Service interfaces are what the controllers depend on.

type LecturerService interface {
	Register(ctx context.Context, req *dto.LecturerRegisterRequest, passport *multipart.FileHeader) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, lecturerID int64) (*dto.LecturerResponse, error)
	CreateCourse(ctx context.Context, lecturerID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, lecturerID int64) ([]*dto.CourseResponse, error)
	EnrollStudent(ctx context.Context, lecturerID, courseID, studentID int64) error
	UploadPassport(ctx context.Context, lecturerID int64, passport *multipart.FileHeader) (*dto.LecturerResponse, error)
}

type StudentService interface {
	Register(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, studentID int64) (*dto.StudentResponse, error)
	RegisterFace(ctx context.Context, studentID int64, image []byte, filename string) (*dto.StudentResponse, error)
	UploadPassport(ctx context.Context, studentID int64, passport *multipart.FileHeader) (*dto.StudentResponse, error)
	GenerateQRCode(ctx context.Context, studentID int64) (*dto.StudentResponse, error)
	QRCodeFile(ctx context.Context, studentID int64) (path string, downloadName string, err error)
}

type SessionService interface {
	StartSession(ctx context.Context, lecturerID int64, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	CloseSession(ctx context.Context, lecturerID, sessionID int64) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, lecturerID, courseID int64) ([]*dto.SessionResponse, error)
}

type AttendanceService interface {
	MarkManual(ctx context.Context, lecturerID int64, req *dto.MarkManualRequest) (*dto.AttendanceResponse, error)
	MarkWithFace(ctx context.Context, lecturerID int64, req *dto.MarkFaceRequest, image []byte, filename string) (*dto.AttendanceResponse, error)
	ValidateEnrollment(ctx context.Context, lecturerID int64, req *dto.ValidateEnrollmentRequest) error
	History(ctx context.Context, lecturerID, courseID int64) (*dto.HistoryResponse, error)
	ExportCSV(ctx context.Context, lecturerID, courseID int64) (data []byte, filename string, err error)
}
