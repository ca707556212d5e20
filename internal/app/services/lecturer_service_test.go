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

type fakeLecturerStore struct {
	lecturers map[int64]*models.Lecturer
	students  *fakeStudentStore
}

func newFakeLecturerStore(students *fakeStudentStore) *fakeLecturerStore {
	return &fakeLecturerStore{lecturers: make(map[int64]*models.Lecturer), students: students}
}

func (f *fakeLecturerStore) Create(_ context.Context, l *models.Lecturer) (*models.Lecturer, error) {
	for _, existing := range f.lecturers {
		if existing.Email == l.Email {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}
	l.ID = int64(len(f.lecturers) + 1)
	f.lecturers[l.ID] = l
	return l, nil
}

func (f *fakeLecturerStore) GetByID(_ context.Context, id int64) (*models.Lecturer, error) {
	if l, ok := f.lecturers[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (f *fakeLecturerStore) GetByEmail(_ context.Context, email string) (*models.Lecturer, error) {
	for _, l := range f.lecturers {
		if l.Email == email {
			return l, nil
		}
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (f *fakeLecturerStore) EmailExists(ctx context.Context, email string) (bool, error) {
	if _, err := f.GetByEmail(ctx, email); err == nil {
		return true, nil
	}
	return f.students.EmailExists(ctx, email)
}

func (f *fakeLecturerStore) UpdatePassportPath(_ context.Context, id int64, path string) error {
	l, ok := f.lecturers[id]
	if !ok {
		return apperrors.ErrLecturerNotFound
	}
	l.PassportPath = &path
	return nil
}

func newTestLecturerService() (LecturerService, *fakeLecturerStore, *fakeCourseStore, *fakeStudentStore) {
	students := newFakeStudentStore()
	lecturers := newFakeLecturerStore(students)
	courses := newFakeCourseStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "test",
	})
	svc := NewLecturerService(lecturers, students, courses, jwtService, newFakeStorage())
	return svc, lecturers, courses, students
}

func TestLecturerRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestLecturerService()

	req := &dto.LecturerRegisterRequest{
		FirstName: "Grace", LastName: "Eze",
		Email: "Grace@Uni.EDU", Password: "password123",
	}
	resp, err := svc.Register(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Register: unexpected error %v", err)
	}
	user, ok := resp.User.(*dto.LecturerResponse)
	if !ok {
		t.Fatalf("Register: user type %T", resp.User)
	}
	if user.Email != "grace@uni.edu" {
		t.Errorf("email not normalized: got %q", user.Email)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "grace@uni.edu", Password: "password123",
	}); err != nil {
		t.Errorf("Login: unexpected error %v", err)
	}
}

func TestLecturerRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestLecturerService()

	req := &dto.LecturerRegisterRequest{
		FirstName: "A", LastName: "B", Email: "dup@uni.edu", Password: "password123",
	}
	if _, err := svc.Register(context.Background(), req, nil); err != nil {
		t.Fatalf("first Register: unexpected error %v", err)
	}
	_, err := svc.Register(context.Background(), req, nil)
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("second Register: got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLecturerRegisterEmailUsedByStudent(t *testing.T) {
	t.Parallel()
	svc, _, _, students := newTestLecturerService()
	students.students[1] = &models.Student{ID: 1, Email: "shared@uni.edu"}

	_, err := svc.Register(context.Background(), &dto.LecturerRegisterRequest{
		FirstName: "A", LastName: "B", Email: "shared@uni.edu", Password: "password123",
	}, nil)
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("Register: got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	t.Parallel()
	svc, lecturers, _, _ := newTestLecturerService()
	lecturers.lecturers[1] = &models.Lecturer{ID: 1}

	req := &dto.CreateCourseRequest{Code: "csc101", Title: "Intro"}
	resp, err := svc.CreateCourse(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("CreateCourse: unexpected error %v", err)
	}
	if resp.Code != "CSC101" {
		t.Errorf("code not normalized: got %q", resp.Code)
	}

	_, err = svc.CreateCourse(context.Background(), 1, req)
	if !errors.Is(err, apperrors.ErrCourseCodeExists) {
		t.Errorf("duplicate CreateCourse: got %v, want ErrCourseCodeExists", err)
	}
}

func TestLecturerUploadPassport(t *testing.T) {
	t.Parallel()
	svc, lecturers, _, _ := newTestLecturerService()
	lecturers.lecturers[1] = &models.Lecturer{ID: 1}

	resp, err := svc.UploadPassport(context.Background(), 1, &multipart.FileHeader{Filename: "me.jpg"})
	if err != nil {
		t.Fatalf("UploadPassport: unexpected error %v", err)
	}
	if resp.PassportPath == nil || *resp.PassportPath == "" {
		t.Error("passport path missing from response")
	}
	if lecturers.lecturers[1].PassportPath == nil {
		t.Error("passport path should be persisted")
	}

	_, err = svc.UploadPassport(context.Background(), 99, &multipart.FileHeader{Filename: "me.jpg"})
	if !errors.Is(err, apperrors.ErrLecturerNotFound) {
		t.Errorf("UploadPassport for unknown lecturer: got %v, want ErrLecturerNotFound", err)
	}
}

func TestEnrollStudentRequiresOwnership(t *testing.T) {
	t.Parallel()
	svc, _, courses, students := newTestLecturerService()
	courses.courses[10] = &models.Course{ID: 10, Code: "CSC101", LecturerID: 1}
	students.students[100] = &models.Student{ID: 100}

	if err := svc.EnrollStudent(context.Background(), 1, 10, 100); err != nil {
		t.Fatalf("EnrollStudent: unexpected error %v", err)
	}
	enrolled, _ := courses.IsEnrolled(context.Background(), 10, 100)
	if !enrolled {
		t.Error("student should be enrolled")
	}

	err := svc.EnrollStudent(context.Background(), 2, 10, 100)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("EnrollStudent by non-owner: got %v, want ErrCourseNotFound", err)
	}
}
