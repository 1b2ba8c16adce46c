package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/auth"
	"intelliview-api/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userRoleKey  = "userRole"

	// AccessCookie carries the access token set by the OAuth callback.
	AccessCookie = "accessToken"
	// RefreshCookie carries the refresh token.
	RefreshCookie = "refreshToken"
)

// ErrUnknownPrincipal is returned by a PrincipalFunc when the token subject no longer exists.
var ErrUnknownPrincipal = errors.New("unknown principal")

// Principal is the account state the auth middleware re-checks on every request.
type Principal struct {
	ID        string
	Email     string
	Role      string
	Validated bool
}

// PrincipalFunc loads the current state of a token subject.
type PrincipalFunc func(ctx context.Context, userID string) (Principal, error)

// Auth verifies the access token from the accessToken cookie or a Bearer header,
// reloads the account and stores its identity in context.
func Auth(issuer *auth.Issuer, lookup PrincipalFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token := tokenFromRequest(c)
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Access token required", nil)
			return
		}

		claims, err := issuer.Verify(token, auth.TokenAccess)
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			respond.Error(c, http.StatusUnauthorized, "token_expired", "Access token expired", nil)
			return
		case err != nil:
			respond.Error(c, http.StatusForbidden, "forbidden", "Invalid access token", nil)
			return
		}

		principal := Principal{ID: claims.UserID(), Email: claims.Email, Role: claims.Role, Validated: true}
		if lookup != nil {
			principal, err = lookup(c.Request.Context(), claims.UserID())
			if errors.Is(err, ErrUnknownPrincipal) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "User not found", nil)
				return
			}
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load user", nil)
				return
			}
		}
		if !principal.Validated {
			respond.Error(c, http.StatusForbidden, "forbidden", "Account not validated", nil)
			return
		}

		SetIdentity(c, principal.ID, principal.Email, principal.Role)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// SetIdentity stores the caller identity in context.
func SetIdentity(c *gin.Context, userID, email, role string) {
	c.Set(userIDKey, userID)
	c.Set(userEmailKey, email)
	c.Set(userRoleKey, role)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserRoleFromContext fetches the user role set by the auth middleware.
func UserRoleFromContext(c *gin.Context) string {
	return contextString(c, userRoleKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
