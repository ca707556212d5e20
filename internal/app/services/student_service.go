package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/auth"
	"github.com/lekan/attendease/internal/pkg/filestorage"
	"github.com/lekan/attendease/internal/pkg/logger"
	"github.com/lekan/attendease/internal/pkg/qrcode"
	"github.com/lekan/attendease/internal/pkg/validation"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

type studentService struct {
	students StudentStore
	embedder FaceEmbedder
	jwt      *auth.JWTService
	storage  filestorage.FileStorage
}

// NewStudentService creates the student account service.
func NewStudentService(students StudentStore, embedder FaceEmbedder, jwt *auth.JWTService, storage filestorage.FileStorage) StudentService {
	return &studentService{
		students: students,
		embedder: embedder,
		jwt:      jwt,
		storage:  storage,
	}
}

func (s *studentService) Register(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	matric := strings.ToUpper(strings.TrimSpace(req.MatricNumber))

	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewBadRequestError("Invalid email format")
	}
	if !validation.IsValidMatricNumber(matric) {
		return nil, apperrors.NewBadRequestError("Invalid matric number format")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, apperrors.NewBadRequestError("Password must be at least 8 characters")
	}

	// Cross-table check: an email used by a lecturer account is also
	// rejected here. Same-table races still hit students_email_key.
	taken, err := s.students.EmailExists(ctx, email)
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

	var level *string
	if req.Level != "" {
		level = &req.Level
	}
	student, err := s.students.Create(ctx, &models.Student{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		MatricNumber: matric,
		PasswordHash: hash,
		Level:        level,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("student_id", student.ID).Str("matric", student.MatricNumber).Msg("Student registered")
	return s.authResponse(student)
}

// Login authenticates by matric number when provided, otherwise by email.
func (s *studentService) Login(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	var (
		student *models.Student
		err     error
	)
	switch {
	case req.MatricNumber != "":
		student, err = s.students.GetByMatricNumber(ctx, strings.ToUpper(strings.TrimSpace(req.MatricNumber)))
	case req.Email != "":
		student, err = s.students.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	default:
		return nil, apperrors.NewBadRequestError("Matric number or email is required")
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(req.Password, student.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.authResponse(student)
}

func (s *studentService) authResponse(student *models.Student) (*dto.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(student.ID, string(models.RoleStudent))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.TokenExpiry()),
		User:      toStudentResponse(student),
	}, nil
}

func (s *studentService) GetProfile(ctx context.Context, studentID int64) (*dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// RegisterFace extracts an embedding from the reference photo, stores the
// photo as the student's passport and persists the embedding. Re-running
// replaces the previous reference.
func (s *studentService) RegisterFace(ctx context.Context, studentID int64, image []byte, filename string) (*dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.Embed(ctx, image, filename)
	if err != nil {
		return nil, err
	}

	saved, err := s.storage.SaveBytes(image, "passports", fmt.Sprintf("%d_passport%s", student.ID, extOrJpg(filename)))
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to save reference photo")
	}

	if err := s.students.UpdateFaceEmbedding(ctx, student.ID, embedding, saved); err != nil {
		return nil, err
	}

	logger.Info().Int64("student_id", student.ID).Msg("Face reference registered")

	student.FaceEmbedding = embedding
	student.PassportPath = &saved
	return toStudentResponse(student), nil
}

// UploadPassport replaces the student's passport photo.
func (s *studentService) UploadPassport(ctx context.Context, studentID int64, passport *multipart.FileHeader) (*dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	saved, err := s.storage.SaveFile(passport, "passports")
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to save passport photo")
	}

	if err := s.students.UpdatePassportPath(ctx, student.ID, saved); err != nil {
		_ = s.storage.DeleteFile(saved)
		return nil, err
	}

	logger.Info().Int64("student_id", student.ID).Msg("Passport photo updated")

	student.PassportPath = &saved
	return toStudentResponse(student), nil
}

// GenerateQRCode renders the student's matric number as a QR code image
// and stores it, replacing any previous code.
func (s *studentService) GenerateQRCode(ctx context.Context, studentID int64) (*dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.EncodePNG(student.MatricNumber)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%d_qrcode.png", student.ID)
	saved, err := s.storage.SaveBytes(png, "qrcodes", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", err)
	}

	if err := s.students.UpdateQRCodePath(ctx, student.ID, saved); err != nil {
		return nil, err
	}

	student.QRCodePath = &saved
	return toStudentResponse(student), nil
}

// QRCodeFile resolves the stored QR code to a filesystem path and the
// name it should be downloaded as.
func (s *studentService) QRCodeFile(ctx context.Context, studentID int64) (string, string, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return "", "", err
	}
	if student.QRCodePath == nil || *student.QRCodePath == "" {
		return "", "", apperrors.ErrQRCodeNotFound
	}
	// The row can outlive the image file, e.g. after a volume wipe.
	if !s.storage.Exists(*student.QRCodePath) {
		return "", "", apperrors.ErrQRCodeNotFound
	}
	physical := s.storage.FullPath(*student.QRCodePath)
	downloadName := fmt.Sprintf("%s_qrcode.png", student.MatricNumber)
	return physical, downloadName, nil
}

func extOrJpg(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		return filename[idx:]
	}
	return ".jpg"
}

func toStudentResponse(st *models.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:             st.ID,
		FirstName:      st.FirstName,
		LastName:       st.LastName,
		Email:          st.Email,
		MatricNumber:   st.MatricNumber,
		Level:          st.Level,
		PassportPath:   st.PassportPath,
		FaceRegistered: st.HasFaceEmbedding(),
		QRCodePath:     st.QRCodePath,
	}
}
