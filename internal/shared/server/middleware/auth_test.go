package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/auth"
)

func newAuthRouter(t *testing.T, iss *auth.Issuer, lookup PrincipalFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(iss, lookup))
	router.GET("/api/v1/auth/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    UserIDFromContext(c),
			"email": UserEmailFromContext(c),
			"role":  UserRoleFromContext(c),
		})
	})
	router.OPTIONS("/api/v1/auth/me", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func testIssuer(t *testing.T, now func() time.Time) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer("middleware-secret", "dev", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	if now != nil {
		iss = iss.WithClock(now)
	}
	return iss
}

func staticPrincipal(p Principal, err error) PrincipalFunc {
	return func(context.Context, string) (Principal, error) { return p, err }
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(t, testIssuer(t, nil), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthStatuses(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.IssuePair(auth.Identity{UserID: "u-1", Email: "a@b.c", Role: "STUDENT"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	expiredPair, err := testIssuer(t, func() time.Time { return past }).IssuePair(auth.Identity{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	valid := Principal{ID: "u-1", Email: "a@b.c", Role: "ADMIN", Validated: true}

	cases := []struct {
		name     string
		cookie   string
		bearer   string
		lookup   PrincipalFunc
		wantCode int
		wantErr  string
	}{
		{name: "missing token", wantCode: http.StatusUnauthorized, wantErr: "unauthorized"},
		{name: "cookie", cookie: pair.AccessToken, lookup: staticPrincipal(valid, nil), wantCode: http.StatusOK},
		{name: "bearer", bearer: pair.AccessToken, lookup: staticPrincipal(valid, nil), wantCode: http.StatusOK},
		{name: "refresh token rejected", bearer: pair.RefreshToken, wantCode: http.StatusForbidden, wantErr: "forbidden"},
		{name: "garbage", bearer: "not-a-jwt", wantCode: http.StatusForbidden, wantErr: "forbidden"},
		{name: "expired", bearer: expiredPair.AccessToken, wantCode: http.StatusUnauthorized, wantErr: "token_expired"},
		{name: "deleted user", bearer: pair.AccessToken, lookup: staticPrincipal(Principal{}, ErrUnknownPrincipal), wantCode: http.StatusUnauthorized, wantErr: "unauthorized"},
		{name: "not validated", bearer: pair.AccessToken, lookup: staticPrincipal(Principal{ID: "u-1"}, nil), wantCode: http.StatusForbidden, wantErr: "forbidden"},
		{name: "lookup failure", bearer: pair.AccessToken, lookup: staticPrincipal(Principal{}, errors.New("db down")), wantCode: http.StatusInternalServerError, wantErr: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAuthRouter(t, iss, tc.lookup)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tc.cookie})
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, resp.Code, resp.Body.String())
			}
			if tc.wantErr != "" {
				if got := errorCode(t, resp); got != tc.wantErr {
					t.Fatalf("expected code %s, got %s", tc.wantErr, got)
				}
			}
		})
	}
}

func TestAuthUsesCurrentRoleFromLookup(t *testing.T) {
	iss := testIssuer(t, nil)
	pair, err := iss.IssuePair(auth.Identity{UserID: "u-1", Role: "STUDENT"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	router := newAuthRouter(t, iss, staticPrincipal(Principal{ID: "u-1", Email: "a@b.c", Role: "ADMIN", Validated: true}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeBody(t, resp)["role"]; got != "ADMIN" {
		t.Fatalf("expected role from lookup, got %v", got)
	}
}
