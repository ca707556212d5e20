package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/pkg/apperrors"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HandleAPIError())
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad request", apperrors.NewBadRequestError("bad"), http.StatusBadRequest, "BAD_REQUEST"},
		{"no face detected", apperrors.ErrNoFaceDetected, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"face match failed", apperrors.ErrFaceMatchFailed, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusForbidden, "FORBIDDEN"},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, "FORBIDDEN"},
		{"course not found", apperrors.ErrCourseNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"session not found", apperrors.ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already marked", apperrors.ErrAlreadyMarked, http.StatusConflict, "CONFLICT"},
		{"session already active", apperrors.ErrSessionAlreadyActive, http.StatusConflict, "CONFLICT"},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, "CONFLICT"},
		{"no face registered", apperrors.ErrNoFaceRegistered, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"service unavailable", apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", http.ErrBodyNotAllowed, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(t, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantStatus)
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrFaceMatchFailed,
		"Face verification failed. Match distance: 0.70").
		WithDetails(map[string]interface{}{"distance": 0.7})

	w := performWithError(t, err)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}

	var body struct {
		Error struct {
			Message string                 `json:"message"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if body.Error.Message != "Face verification failed. Match distance: 0.70" {
		t.Errorf("message: got %q", body.Error.Message)
	}
	if body.Error.Details["distance"] != 0.7 {
		t.Errorf("details distance: got %v", body.Error.Details["distance"])
	}
}

func TestHandleAPIErrorInternalHidesMessage(t *testing.T) {
	w := performWithError(t, http.ErrHandlerTimeout)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if body.Error.Message != "An unexpected error occurred" {
		t.Errorf("internal error message leaked: %q", body.Error.Message)
	}
}
