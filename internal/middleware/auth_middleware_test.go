package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/pkg/auth"
)

type stubResolver struct {
	lecturerErr error
	studentErr  error
}

func (s *stubResolver) LecturerExists(_ context.Context, _ int64) error { return s.lecturerErr }
func (s *stubResolver) StudentExists(_ context.Context, _ int64) error  { return s.studentErr }

func newAuthTestRouter(resolver *stubResolver) (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "test",
	})
	m := NewAuthMiddleware(jwtService, resolver)

	router := gin.New()
	router.Use(HandleAPIError())
	router.GET("/lecturer", m.LecturerAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	router.GET("/student", m.StudentAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	router.GET("/student/:id/self", m.StudentAuth(), SelfOnly("id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtService
}

func TestLecturerAuthAcceptsBearerToken(t *testing.T) {
	router, jwtService := newAuthTestRouter(&stubResolver{})
	token, _ := jwtService.GenerateToken(5, "lecturer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lecturer", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestLecturerAuthRejectsMissingToken(t *testing.T) {
	router, _ := newAuthTestRouter(&stubResolver{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lecturer", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
}

func TestLecturerAuthRejectsStudentRole(t *testing.T) {
	router, jwtService := newAuthTestRouter(&stubResolver{})
	token, _ := jwtService.GenerateToken(5, "student")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lecturer", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", w.Code)
	}
}

func TestLecturerAuthRejectsDeletedAccount(t *testing.T) {
	router, jwtService := newAuthTestRouter(&stubResolver{lecturerErr: errors.New("gone")})
	token, _ := jwtService.GenerateToken(5, "lecturer")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lecturer", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", w.Code)
	}
}

func TestStudentAuthAcceptsCookie(t *testing.T) {
	router, jwtService := newAuthTestRouter(&stubResolver{})
	token, _ := jwtService.GenerateToken(7, "student")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/student", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestSelfOnlyGuard(t *testing.T) {
	router, jwtService := newAuthTestRouter(&stubResolver{})
	token, _ := jwtService.GenerateToken(7, "student")

	// Matching id passes.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/student/7/self", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("own id: got %d, want 200", w.Code)
	}

	// Another student's id is forbidden.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/student/8/self", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("other id: got %d, want 403", w.Code)
	}
}
