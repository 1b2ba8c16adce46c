package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		role     string
		wantCode int
	}{
		{role: "ADMIN", wantCode: http.StatusOK},
		{role: "PLACEMENT_COORDINATOR", wantCode: http.StatusOK},
		{role: "STUDENT", wantCode: http.StatusForbidden},
		{role: "", wantCode: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run("role="+tc.role, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				SetIdentity(c, "u-1", "a@b.c", tc.role)
				c.Next()
			})
			router.GET("/protected/coordinator", RequireRoles("PLACEMENT_COORDINATOR", "ADMIN"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/protected/coordinator", nil))
			if resp.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, resp.Code)
			}
			if tc.wantCode == http.StatusForbidden && errorCode(t, resp) != "forbidden" {
				t.Fatalf("expected forbidden code, got %s", resp.Body.String())
			}
		})
	}
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	body, ok := decodeBody(t, resp)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %s", resp.Body.String())
	}
	code, _ := body["code"].(string)
	return code
}
