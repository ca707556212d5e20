package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles all repository implementations over a shared pool.
type Repositories struct {
	Lecturer   *LecturerRepository
	Student    *StudentRepository
	Course     *CourseRepository
	Session    *SessionRepository
	Attendance *AttendanceRepository
}

// NewRepositories creates every repository over the given pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Lecturer:   NewLecturerRepository(pool),
		Student:    NewStudentRepository(pool),
		Course:     NewCourseRepository(pool),
		Session:    NewSessionRepository(pool),
		Attendance: NewAttendanceRepository(pool),
	}
}
