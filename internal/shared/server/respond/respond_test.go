package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusTooManyRequests, "rate_limited", "slow down", map[string]any{"group": "upload"})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, resp.Body.String())
	}
	if body.Error.Code != "rate_limited" || body.Error.Message != "slow down" {
		t.Fatalf("unexpected body %+v", body)
	}
	details, ok := body.Error.Details.(map[string]any)
	if !ok || details["group"] != "upload" {
		t.Fatalf("unexpected details %#v", body.Error.Details)
	}
}

func TestErrorOmitsEmptyDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	var raw map[string]map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["error"]["details"]; ok {
		t.Fatalf("details should be omitted: %s", resp.Body.String())
	}
}

func TestCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/x", func(c *gin.Context) { Created(c, gin.H{"id": "r-1"}) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}
