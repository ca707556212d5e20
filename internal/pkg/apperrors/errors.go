package apperrors

import "errors"

// Error kinds. Handlers translate these into HTTP statuses; services wrap
// them with context via CustomError. "Not found" deliberately covers both
// "entity absent" and "entity not owned by the caller" so ownership checks
// do not leak existence.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidState       = errors.New("invalid state")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrValidationFailed   = errors.New("validation failed")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Account errors
var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrMatricAlreadyExists = errors.New("matric number already exists")
)

// Attendance domain errors
var (
	ErrCourseNotFound       = errors.New("course not found or not assigned to you")
	ErrStudentNotFound      = errors.New("student not found")
	ErrLecturerNotFound     = errors.New("lecturer not found")
	ErrSessionNotFound      = errors.New("active session not found")
	ErrSessionAlreadyActive = errors.New("an attendance session is already active for this course")
	ErrAlreadyMarked        = errors.New("attendance already marked for this student in this session")
	ErrCourseCodeExists     = errors.New("course code already exists")
	ErrNoFaceRegistered     = errors.New("student has not registered a face for verification")
	ErrNoFaceDetected       = errors.New("no face detected in the verification image")
	ErrFaceMatchFailed      = errors.New("face verification failed")
	ErrNotEnrolled          = errors.New("student not enrolled in this course")
	ErrQRCodeNotFound       = errors.New("qr code not found for this student")
)

// CustomError attaches a human-readable message and optional details to one
// of the kind sentinels above.
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the underlying kind for errors.Is.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds a stable error code.
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewCustomError creates a CustomError with an underlying kind.
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error with a message.
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message.
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewBadRequestError creates a bad-request error with a message.
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewUnauthorizedError creates an unauthorized error with a message.
func NewUnauthorizedError(message string) error {
	return &CustomError{Err: ErrUnauthorized, Message: message}
}

// Details extracts the details map from err if it carries one.
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
