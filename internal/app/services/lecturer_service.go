package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/auth"
	"github.com/lekan/attendease/internal/pkg/filestorage"
	"github.com/lekan/attendease/internal/pkg/logger"
	"github.com/lekan/attendease/internal/pkg/validation"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

type lecturerService struct {
	lecturers LecturerStore
	students  StudentStore
	courses   CourseStore
	jwt       *auth.JWTService
	storage   filestorage.FileStorage
}

// NewLecturerService creates the lecturer account and course service.
func NewLecturerService(lecturers LecturerStore, students StudentStore, courses CourseStore, jwt *auth.JWTService, storage filestorage.FileStorage) LecturerService {
	return &lecturerService{
		lecturers: lecturers,
		students:  students,
		courses:   courses,
		jwt:       jwt,
		storage:   storage,
	}
}

func (s *lecturerService) Register(ctx context.Context, req *dto.LecturerRegisterRequest, passport *multipart.FileHeader) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewBadRequestError("Invalid email format")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.NewBadRequestError("Password must be at least 8 characters")
	}

	// Cross-table check: an email used by a student account is also
	// rejected here. Same-table races still hit lecturers_email_key.
	taken, err := s.lecturers.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var passportPath *string
	if passport != nil {
		saved, err := s.storage.SaveFile(passport, "passports")
		if err != nil {
			return nil, apperrors.NewBadRequestError("Failed to save passport photo")
		}
		passportPath = &saved
	}

	lecturer, err := s.lecturers.Create(ctx, &models.Lecturer{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		PassportPath: passportPath,
	})
	if err != nil {
		if passportPath != nil {
			_ = s.storage.DeleteFile(*passportPath)
		}
		return nil, err
	}

	logger.Info().Int64("lecturer_id", lecturer.ID).Msg("Lecturer registered")
	return s.authResponse(lecturer)
}

func (s *lecturerService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	lecturer, err := s.lecturers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrLecturerNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(req.Password, lecturer.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.authResponse(lecturer)
}

func (s *lecturerService) authResponse(lecturer *models.Lecturer) (*dto.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(lecturer.ID, string(models.RoleLecturer))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.TokenExpiry()),
		User:      toLecturerResponse(lecturer),
	}, nil
}

func (s *lecturerService) GetProfile(ctx context.Context, lecturerID int64) (*dto.LecturerResponse, error) {
	lecturer, err := s.lecturers.GetByID(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	return toLecturerResponse(lecturer), nil
}

func (s *lecturerService) CreateCourse(ctx context.Context, lecturerID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperrors.NewBadRequestError("Course code is required")
	}

	var level *string
	if req.Level != "" {
		level = &req.Level
	}
	course, err := s.courses.Create(ctx, &models.Course{
		Code:       code,
		Title:      strings.TrimSpace(req.Title),
		Level:      level,
		LecturerID: lecturerID,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("course_id", course.ID).Str("code", course.Code).Msg("Course created")
	return toCourseResponse(course), nil
}

func (s *lecturerService) ListCourses(ctx context.Context, lecturerID int64) ([]*dto.CourseResponse, error) {
	courses, err := s.courses.ListByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, toCourseResponse(c))
	}
	return responses, nil
}

// EnrollStudent adds a student to a course the lecturer owns.
func (s *lecturerService) EnrollStudent(ctx context.Context, lecturerID, courseID, studentID int64) error {
	if _, err := s.courses.GetOwned(ctx, courseID, lecturerID); err != nil {
		return err
	}
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}
	return s.courses.Enroll(ctx, courseID, studentID)
}

// UploadPassport replaces the lecturer's passport photo.
func (s *lecturerService) UploadPassport(ctx context.Context, lecturerID int64, passport *multipart.FileHeader) (*dto.LecturerResponse, error) {
	lecturer, err := s.lecturers.GetByID(ctx, lecturerID)
	if err != nil {
		return nil, err
	}

	saved, err := s.storage.SaveFile(passport, "passports")
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to save passport photo")
	}

	if err := s.lecturers.UpdatePassportPath(ctx, lecturer.ID, saved); err != nil {
		_ = s.storage.DeleteFile(saved)
		return nil, err
	}

	logger.Info().Int64("lecturer_id", lecturer.ID).Msg("Passport photo updated")

	lecturer.PassportPath = &saved
	return toLecturerResponse(lecturer), nil
}

func toLecturerResponse(l *models.Lecturer) *dto.LecturerResponse {
	return &dto.LecturerResponse{
		ID:           l.ID,
		FirstName:    l.FirstName,
		LastName:     l.LastName,
		Email:        l.Email,
		PassportPath: l.PassportPath,
	}
}

func toCourseResponse(c *models.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:         c.ID,
		Code:       c.Code,
		Title:      c.Title,
		Level:      c.Level,
		LecturerID: c.LecturerID,
		CreatedAt:  c.CreatedAt,
	}
}
