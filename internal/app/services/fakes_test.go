package services

import (
	"context"
	"time"

	"github.com/lekan/attendease/internal/pkg/apperrors"

	"github.com/lekan/attendease/internal/app/models"
)

// In-memory store fakes mirroring the constraint behavior of the real
// repositories: one active session per course, one mark per student and
// session.

type fakeStudentStore struct {
	students map[int64]*models.Student
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	m := make(map[int64]*models.Student)
	for _, s := range students {
		m[s.ID] = s
	}
	return &fakeStudentStore{students: m}
}

func (f *fakeStudentStore) Create(_ context.Context, s *models.Student) (*models.Student, error) {
	s.ID = int64(len(f.students) + 1)
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByMatricNumber(_ context.Context, matric string) (*models.Student, error) {
	for _, s := range f.students {
		if s.MatricNumber == matric {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, s := range f.students {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) UpdateFaceEmbedding(_ context.Context, id int64, embedding []float64, passportPath string) error {
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.FaceEmbedding = embedding
	s.PassportPath = &passportPath
	return nil
}

func (f *fakeStudentStore) UpdatePassportPath(_ context.Context, id int64, path string) error {
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.PassportPath = &path
	return nil
}

func (f *fakeStudentStore) UpdateQRCodePath(_ context.Context, id int64, path string) error {
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.QRCodePath = &path
	return nil
}

type fakeCourseStore struct {
	courses     map[int64]*models.Course
	enrollments map[[2]int64]bool
}

func newFakeCourseStore(courses ...*models.Course) *fakeCourseStore {
	m := make(map[int64]*models.Course)
	for _, c := range courses {
		m[c.ID] = c
	}
	return &fakeCourseStore{courses: m, enrollments: make(map[[2]int64]bool)}
}

func (f *fakeCourseStore) Create(_ context.Context, c *models.Course) (*models.Course, error) {
	for _, existing := range f.courses {
		if existing.Code == c.Code {
			return nil, apperrors.ErrCourseCodeExists
		}
	}
	c.ID = int64(len(f.courses) + 1)
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) GetOwned(_ context.Context, courseID, lecturerID int64) (*models.Course, error) {
	c, ok := f.courses[courseID]
	if !ok || c.LecturerID != lecturerID {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) ListByLecturer(_ context.Context, lecturerID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if c.LecturerID == lecturerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) Enroll(_ context.Context, courseID, studentID int64) error {
	f.enrollments[[2]int64{courseID, studentID}] = true
	return nil
}

func (f *fakeCourseStore) IsEnrolled(_ context.Context, courseID, studentID int64) (bool, error) {
	return f.enrollments[[2]int64{courseID, studentID}], nil
}

type fakeSessionStore struct {
	sessions map[int64]*models.AttendanceSession
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*models.AttendanceSession)}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.AttendanceSession) (*models.AttendanceSession, error) {
	for _, existing := range f.sessions {
		if existing.CourseID == s.CourseID && existing.IsActive {
			return nil, apperrors.ErrSessionAlreadyActive
		}
	}
	f.nextID++
	created := *s
	created.ID = f.nextID
	created.IsActive = true
	created.StartedAt = time.Now()
	created.CreatedAt = time.Now()
	f.sessions[created.ID] = &created
	return &created, nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id int64) (*models.AttendanceSession, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionStore) Close(_ context.Context, sessionID, lecturerID int64) (*models.AttendanceSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.LecturerID != lecturerID || !s.IsActive {
		return nil, apperrors.ErrSessionNotFound
	}
	s.IsActive = false
	now := time.Now()
	s.EndedAt = &now
	return s, nil
}

func (f *fakeSessionStore) ListByCourse(_ context.Context, courseID int64) ([]*models.AttendanceSession, error) {
	var out []*models.AttendanceSession
	for _, s := range f.sessions {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAttendanceStore struct {
	records map[[2]int64]*models.Attendance
	nextID  int64
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[[2]int64]*models.Attendance)}
}

func (f *fakeAttendanceStore) Create(_ context.Context, a *models.Attendance) (*models.Attendance, error) {
	key := [2]int64{a.StudentID, a.SessionID}
	if _, ok := f.records[key]; ok {
		return nil, apperrors.ErrAlreadyMarked
	}
	f.nextID++
	created := *a
	created.ID = f.nextID
	created.MarkedAt = time.Now()
	f.records[key] = &created
	return &created, nil
}

func (f *fakeAttendanceStore) Exists(_ context.Context, studentID, sessionID int64) (bool, error) {
	_, ok := f.records[[2]int64{studentID, sessionID}]
	return ok, nil
}

func (f *fakeAttendanceStore) ListByCourse(_ context.Context, courseID int64) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, a := range f.records {
		if a.CourseID == courseID {
			out = append(out, &models.AttendanceRecord{Attendance: *a})
		}
	}
	return out, nil
}

// fakeEmbedder returns a fixed embedding or error.
type fakeEmbedder struct {
	embedding []float64
	err       error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ []byte, _ string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embedding, nil
}
