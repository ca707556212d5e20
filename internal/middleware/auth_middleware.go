package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/auth"

	"github.com/lekan/attendease/internal/app/models"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

// AccountResolver confirms that the authenticated account still exists.
type AccountResolver interface {
	LecturerExists(ctx context.Context, id int64) error
	StudentExists(ctx context.Context, id int64) error
}

// AuthMiddleware authenticates requests and enforces roles.
type AuthMiddleware struct {
	jwt      *auth.JWTService
	accounts AccountResolver
}

func NewAuthMiddleware(jwt *auth.JWTService, accounts AccountResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, accounts: accounts}
}

// LecturerAuth requires a bearer token with the lecturer role. The account
// is re-fetched so revoked accounts fail even with a valid token.
func (m *AuthMiddleware) LecturerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, bearerOnly)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		if claims.Role != string(models.RoleLecturer) {
			abortForbidden(c)
			return
		}
		if err := m.accounts.LecturerExists(c.Request.Context(), claims.UserID); err != nil {
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// StudentAuth requires a student token, accepted from either the session
// cookie or a bearer header.
func (m *AuthMiddleware) StudentAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.authenticate(c, cookieOrBearer)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		if claims.Role != string(models.RoleStudent) {
			abortForbidden(c)
			return
		}
		if err := m.accounts.StudentExists(c.Request.Context(), claims.UserID); err != nil {
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// SelfOnly ensures the authenticated user matches the named path parameter.
func SelfOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			_ = c.Error(apperrors.NewBadRequestError("Invalid id parameter"))
			c.Abort()
			return
		}
		if GetUserID(c) != pathID {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

type tokenSource int

const (
	bearerOnly tokenSource = iota
	cookieOrBearer
)

func (m *AuthMiddleware) authenticate(c *gin.Context, source tokenSource) (*auth.Claims, error) {
	token := ""
	if source == cookieOrBearer {
		if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
			token = cookie
		}
	}
	if token == "" {
		extracted, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			return nil, apperrors.ErrTokenInvalid
		}
		token = extracted
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func abortUnauthorized(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func abortForbidden(c *gin.Context) {
	_ = c.Error(apperrors.ErrPermissionDenied)
	c.Abort()
}
