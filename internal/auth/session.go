package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sharedauth "intelliview-api/internal/shared/auth"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
	"intelliview-api/internal/usage"
)

// Sessions issues token pairs and keeps them in HTTP-only cookies.
type Sessions struct {
	Issuer *sharedauth.Issuer
	// Secure marks cookies HTTPS-only; set outside development.
	Secure bool
	// Principals reloads the account on refresh so role changes take effect.
	Principals middleware.PrincipalFunc
}

// Start signs a fresh pair for the identity and sets both cookies.
func (s *Sessions) Start(c *gin.Context, id sharedauth.Identity) (sharedauth.TokenPair, error) {
	pair, err := s.Issuer.IssuePair(id)
	if err != nil {
		return sharedauth.TokenPair{}, err
	}
	s.setCookie(c, middleware.AccessCookie, pair.AccessToken, s.Issuer.AccessTTL())
	s.setCookie(c, middleware.RefreshCookie, pair.RefreshToken, s.Issuer.RefreshTTL())
	return pair, nil
}

// Clear expires both cookies.
func (s *Sessions) Clear(c *gin.Context) {
	s.setCookie(c, middleware.AccessCookie, "", -time.Second)
	s.setCookie(c, middleware.RefreshCookie, "", -time.Second)
}

func (s *Sessions) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.Secure, true)
}

// RegisterRoutes attaches the cookie-authenticated session routes.
func (s *Sessions) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/refresh", s.refresh)
	rg.POST("/auth/logout", s.logout)
}

func (s *Sessions) refresh(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || token == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Refresh token required", nil)
		return
	}
	claims, err := s.Issuer.Verify(token, sharedauth.TokenRefresh)
	switch {
	case errors.Is(err, sharedauth.ErrExpiredToken):
		s.Clear(c)
		respond.Error(c, http.StatusUnauthorized, "token_expired", "Refresh token expired", nil)
		return
	case err != nil:
		respond.Error(c, http.StatusForbidden, "forbidden", "Invalid refresh token", nil)
		return
	}

	id := sharedauth.Identity{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}
	if s.Principals != nil {
		p, err := s.Principals(c.Request.Context(), claims.UserID())
		if errors.Is(err, middleware.ErrUnknownPrincipal) {
			s.Clear(c)
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "User not found", nil)
			return
		}
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load user", nil)
			return
		}
		if !p.Validated {
			respond.Error(c, http.StatusForbidden, "forbidden", "Account not validated", nil)
			return
		}
		id = sharedauth.Identity{UserID: p.ID, Email: p.Email, Role: p.Role}
	}

	pair, err := s.Start(c, id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to issue tokens", nil)
		return
	}
	respond.OK(c, gin.H{
		"userId":           id.UserID,
		"role":             id.Role,
		"accessExpiresAt":  pair.AccessExpiresAt,
		"refreshExpiresAt": pair.RefreshExpiresAt,
	})
}

func (s *Sessions) logout(c *gin.Context) {
	s.Clear(c)
	respond.OK(c, gin.H{"loggedOut": true})
}

// ResumeCounter counts a user's uploads.
type ResumeCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

// UsageReader reads a user's generation allowance.
type UsageReader interface {
	Get(ctx context.Context, userID string) (usage.Usage, error)
}

// StatsHandler serves the caller's dashboard counters.
type StatsHandler struct {
	Resumes ResumeCounter
	Usage   UsageReader
}

// RegisterRoutes attaches GET /auth/stats.
func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/stats", h.stats)
}

func (h *StatsHandler) stats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)

	count, err := h.Resumes.Count(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load stats", nil)
		return
	}
	u, err := h.Usage.Get(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load stats", nil)
		return
	}
	respond.OK(c, gin.H{
		"resumeCount": count,
		"generations": gin.H{
			"plan":      u.Plan,
			"limit":     u.Limit,
			"used":      u.Used,
			"remaining": u.Remaining(),
			"resetsAt":  u.ResetsAt,
		},
	})
}
