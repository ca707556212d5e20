package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/logger"

	"github.com/lekan/attendease/internal/app/models/dto"
)

// HandleAPIError translates errors attached to the gin context into HTTP
// responses. Handlers call c.Error(err) and return; this middleware owns
// the status mapping.
func HandleAPIError() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status, code := classify(err)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Unhandled error")
			c.JSON(status, dto.NewErrorResponse(code, "An unexpected error occurred", nil))
			return
		}

		c.JSON(status, dto.NewErrorResponse(code, err.Error(), apperrors.Details(err)))
	}
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrNoFaceDetected):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrFaceMatchFailed),
		errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotEnrolled):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrLecturerNotFound),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrQRCodeNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorCodeNotFound
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrMatricAlreadyExists),
		errors.Is(err, apperrors.ErrCourseCodeExists),
		errors.Is(err, apperrors.ErrSessionAlreadyActive),
		errors.Is(err, apperrors.ErrAlreadyMarked),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrNoFaceRegistered),
		errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusUnprocessableEntity, dto.ErrorCodeInvalidState
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternal
	}
}
