package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "intelliview-api/internal/shared/auth"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
	"intelliview-api/internal/shared/telemetry"
	"intelliview-api/internal/users"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// LoginService resolves a Google identity to a local account.
type LoginService interface {
	LoginWithGoogle(ctx context.Context, profile users.GoogleProfile) (users.User, error)
}

// GoogleOptions configures GoogleService.
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// UIRedirect is where the browser lands after the callback.
	UIRedirect string
	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// GoogleService handles the Google OAuth flow and starts a cookie session.
type GoogleService struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	uiRedirect  string
	states      *stateStore
	logins      LoginService
	sessions    *Sessions
}

// NewGoogleService builds a GoogleService.
func NewGoogleService(opts GoogleOptions, logins LoginService, sessions *Sessions) *GoogleService {
	endpoint := opts.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfo := opts.UserInfoURL
	if userInfo == "" {
		userInfo = googleUserInfoURL
	}
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: endpoint,
		},
		userInfoURL: userInfo,
		uiRedirect:  opts.UIRedirect,
		states:      newStateStore(loginStateTTL, time.Now),
		logins:      logins,
		sessions:    sessions,
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google", s.start)
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusServiceUnavailable, "upstream_unavailable", "Google auth not configured", nil)
		return
	}

	state, verifier := s.states.issue()
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))
}

// callback never answers with JSON: the browser is always sent back to the UI,
// with ?error= when the login did not complete.
func (s *GoogleService) callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		s.fail(c, "access_denied", fmt.Errorf("google returned %s", errParam))
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		s.fail(c, "invalid_request", fmt.Errorf("missing state or code"))
		return
	}
	verifier, ok := s.states.take(state)
	if !ok {
		s.fail(c, "invalid_state", fmt.Errorf("invalid or expired state"))
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		s.fail(c, "exchange_failed", err)
		return
	}
	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		s.fail(c, "profile_failed", err)
		return
	}
	user, err := s.logins.LoginWithGoogle(ctx, profile)
	if err != nil {
		s.fail(c, "no_user", err)
		return
	}
	if _, err := s.sessions.Start(c, sharedauth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}); err != nil {
		s.fail(c, "token_generation_failed", err)
		return
	}

	telemetry.Info("auth.login", map[string]any{"user_id": user.ID, "role": user.Role})
	c.Redirect(http.StatusFound, s.uiRedirect)
}

func (s *GoogleService) fail(c *gin.Context, code string, err error) {
	telemetry.Warn("auth.google_callback_failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"reason":     code,
		"error":      err.Error(),
	})
	c.Redirect(http.StatusFound, withError(s.uiRedirect, code))
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchProfile(ctx context.Context, token *oauth2.Token) (users.GoogleProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return users.GoogleProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return users.GoogleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return users.GoogleProfile{}, err
	}
	// v2 userinfo reports the subject as "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	if info.Sub == "" {
		return users.GoogleProfile{}, fmt.Errorf("userinfo without subject")
	}
	return users.GoogleProfile{ID: info.Sub, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func withError(rawURL, code string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/?error=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return u.String()
}
