package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/auth"

	"github.com/lekan/attendease/internal/app/models"
	"github.com/lekan/attendease/internal/app/models/dto"
)

// fakeStorage records writes in memory.
type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) SaveFile(_ *multipart.FileHeader, subPath string) (string, error) {
	rel := "uploads/" + subPath + "/file"
	f.files[rel] = nil
	return rel, nil
}

func (f *fakeStorage) SaveBytes(data []byte, subPath, filename string) (string, error) {
	rel := "uploads/" + subPath + "/" + filename
	f.files[rel] = data
	return rel, nil
}

func (f *fakeStorage) DeleteFile(relPath string) error {
	delete(f.files, relPath)
	return nil
}

func (f *fakeStorage) FullPath(relPath string) string {
	if _, ok := f.files[relPath]; !ok {
		return ""
	}
	return "/srv/" + relPath
}

func (f *fakeStorage) Exists(relPath string) bool {
	_, ok := f.files[relPath]
	return ok
}

func newTestStudentService(students *fakeStudentStore, embedder FaceEmbedder) (StudentService, *fakeStorage) {
	storage := newFakeStorage()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "test",
	})
	return NewStudentService(students, embedder, jwtService, storage), storage
}

func TestStudentRegisterAndLogin(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore()
	svc, _ := newTestStudentService(students, &fakeEmbedder{})

	resp, err := svc.Register(context.Background(), &dto.StudentRegisterRequest{
		FirstName:    "Ada",
		LastName:     "Obi",
		Email:        "ada@uni.edu",
		MatricNumber: "csc/2021/001",
		Password:     "password123",
	})
	if err != nil {
		t.Fatalf("Register: unexpected error %v", err)
	}
	if resp.Token == "" {
		t.Error("Register: token missing")
	}
	user, ok := resp.User.(*dto.StudentResponse)
	if !ok {
		t.Fatalf("Register: user type %T", resp.User)
	}
	if user.MatricNumber != "CSC/2021/001" {
		t.Errorf("matric not normalized: got %q", user.MatricNumber)
	}

	// Login by matric number with the original (lowercase) form.
	if _, err := svc.Login(context.Background(), &dto.StudentLoginRequest{
		MatricNumber: "csc/2021/001", Password: "password123",
	}); err != nil {
		t.Errorf("Login: unexpected error %v", err)
	}

	// Wrong password is rejected without detail.
	_, err = svc.Login(context.Background(), &dto.StudentLoginRequest{
		MatricNumber: "csc/2021/001", Password: "wrong-password",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login: got %v, want ErrInvalidCredentials", err)
	}
}

func TestStudentRegisterValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestStudentService(newFakeStudentStore(), &fakeEmbedder{})

	tests := []struct {
		name string
		req  dto.StudentRegisterRequest
	}{
		{"bad email", dto.StudentRegisterRequest{Email: "nope", MatricNumber: "CSC/2021/001", Password: "password123"}},
		{"bad matric", dto.StudentRegisterRequest{Email: "a@b.co", MatricNumber: "x", Password: "password123"}},
		{"short password", dto.StudentRegisterRequest{Email: "a@b.co", MatricNumber: "CSC/2021/001", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), &tt.req); !errors.Is(err, apperrors.ErrBadRequest) {
				t.Errorf("Register: got %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestRegisterFaceStoresEmbedding(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{
		ID: 1, MatricNumber: "CSC/2021/001",
	})
	svc, storage := newTestStudentService(students, &fakeEmbedder{embedding: []float64{0.1, 0.2}})

	resp, err := svc.RegisterFace(context.Background(), 1, []byte("photo"), "face.jpg")
	if err != nil {
		t.Fatalf("RegisterFace: unexpected error %v", err)
	}
	if !resp.FaceRegistered {
		t.Error("FaceRegistered should be true")
	}
	if len(students.students[1].FaceEmbedding) != 2 {
		t.Errorf("stored embedding length: got %d", len(students.students[1].FaceEmbedding))
	}
	if len(storage.files) != 1 {
		t.Errorf("stored files: got %d, want 1", len(storage.files))
	}
}

func TestRegisterFaceNoFaceDetected(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{ID: 1})
	svc, _ := newTestStudentService(students, &fakeEmbedder{err: apperrors.ErrNoFaceDetected})

	_, err := svc.RegisterFace(context.Background(), 1, []byte("photo"), "face.jpg")
	if !errors.Is(err, apperrors.ErrNoFaceDetected) {
		t.Errorf("RegisterFace: got %v, want ErrNoFaceDetected", err)
	}
	if students.students[1].HasFaceEmbedding() {
		t.Error("embedding should not be stored on failure")
	}
}

func TestGenerateAndDownloadQRCode(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{
		ID: 3, MatricNumber: "CSC/2021/003",
	})
	svc, storage := newTestStudentService(students, &fakeEmbedder{})

	resp, err := svc.GenerateQRCode(context.Background(), 3)
	if err != nil {
		t.Fatalf("GenerateQRCode: unexpected error %v", err)
	}
	if resp.QRCodePath == nil || *resp.QRCodePath != "uploads/qrcodes/3_qrcode.png" {
		t.Errorf("qr path: got %v", resp.QRCodePath)
	}
	if data := storage.files["uploads/qrcodes/3_qrcode.png"]; len(data) == 0 {
		t.Error("qr code image should be written")
	}

	path, downloadName, err := svc.QRCodeFile(context.Background(), 3)
	if err != nil {
		t.Fatalf("QRCodeFile: unexpected error %v", err)
	}
	if path == "" {
		t.Error("physical path missing")
	}
	if downloadName != "CSC/2021/003_qrcode.png" {
		t.Errorf("download name: got %q", downloadName)
	}
}

func TestQRCodeFileMissing(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{ID: 4, MatricNumber: "CSC/2021/004"})
	svc, _ := newTestStudentService(students, &fakeEmbedder{})

	_, _, err := svc.QRCodeFile(context.Background(), 4)
	if !errors.Is(err, apperrors.ErrQRCodeNotFound) {
		t.Errorf("QRCodeFile: got %v, want ErrQRCodeNotFound", err)
	}
}

func TestQRCodeFileGoneFromDisk(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{ID: 5, MatricNumber: "CSC/2021/005"})
	svc, storage := newTestStudentService(students, &fakeEmbedder{})

	if _, err := svc.GenerateQRCode(context.Background(), 5); err != nil {
		t.Fatalf("GenerateQRCode: unexpected error %v", err)
	}

	// The database row survives but the image file does not.
	delete(storage.files, "uploads/qrcodes/5_qrcode.png")

	_, _, err := svc.QRCodeFile(context.Background(), 5)
	if !errors.Is(err, apperrors.ErrQRCodeNotFound) {
		t.Errorf("QRCodeFile: got %v, want ErrQRCodeNotFound", err)
	}
}

func TestStudentUploadPassportUnknownStudent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestStudentService(newFakeStudentStore(), &fakeEmbedder{})

	_, err := svc.UploadPassport(context.Background(), 99, &multipart.FileHeader{Filename: "me.jpg"})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("UploadPassport: got %v, want ErrStudentNotFound", err)
	}
}

func TestStudentUploadPassport(t *testing.T) {
	t.Parallel()
	students := newFakeStudentStore(&models.Student{ID: 6, MatricNumber: "CSC/2021/006"})
	svc, storage := newTestStudentService(students, &fakeEmbedder{})

	resp, err := svc.UploadPassport(context.Background(), 6, &multipart.FileHeader{Filename: "me.jpg"})
	if err != nil {
		t.Fatalf("UploadPassport: unexpected error %v", err)
	}
	if resp.PassportPath == nil || *resp.PassportPath == "" {
		t.Fatal("passport path missing from response")
	}
	if !storage.Exists(*resp.PassportPath) {
		t.Error("passport file should be stored")
	}
	if students.students[6].PassportPath == nil {
		t.Error("passport path should be persisted")
	}
}
