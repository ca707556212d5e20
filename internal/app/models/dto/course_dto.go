package dto

import "time"

// CreateCourseRequest creates a course owned by the authenticated lecturer.
type CreateCourseRequest struct {
	Code  string `json:"code" binding:"required"`
	Title string `json:"title" binding:"required"`
	Level string `json:"level"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Level      *string   `json:"level,omitempty"`
	LecturerID int64     `json:"lecturerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EnrollRequest enrolls a student into a course.
type EnrollRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
}
