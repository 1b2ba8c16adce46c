package questions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/llm"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
	"intelliview-api/internal/usage"
	"intelliview-api/internal/users"
)

// Seeder loads the bundled reference questions into the bank.
type Seeder func(ctx context.Context) (int, error)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc  *Service
	Seed Seeder
	// AllowAnySeeder lets every authenticated user seed, for development.
	AllowAnySeeder bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, seed Seeder, allowAnySeeder bool) *Handler {
	return &Handler{Svc: svc, Seed: seed, AllowAnySeeder: allowAnySeeder}
}

// RegisterPublicRoutes attaches unauthenticated lookup routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/interview/job-roles", h.jobRoles)
	rg.GET("/interview/companies", h.companies)
}

// RegisterRoutes attaches authenticated routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interview/generate-questions", h.generate)
	rg.POST("/interview/seed-questions", h.seed)
}

func (h *Handler) generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Generate(c.Request.Context(), body.toRequest(middleware.UserIDFromContext(c)))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "weekly question generation limit reached", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "upstream_unavailable", "question generation is not configured", nil)
		case errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusGatewayTimeout, "timeout", "question generation timed out", nil)
		case errors.Is(err, ErrUpstreamUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "upstream_unavailable", "question generation provider unavailable", nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusInternalServerError, "generation_failed", "failed to generate questions", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate questions", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) jobRoles(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"jobRoles": questionbank.JobRoles})
}

func (h *Handler) companies(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"companies": questionbank.Companies})
}

func (h *Handler) seed(c *gin.Context) {
	if !h.AllowAnySeeder && middleware.UserRoleFromContext(c) != users.RoleAdmin {
		respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
		return
	}
	if h.Seed == nil {
		respond.Error(c, http.StatusServiceUnavailable, "upstream_unavailable", "question bank is not configured", nil)
		return
	}
	n, err := h.Seed(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "upstream_unavailable", "embedding provider is not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to seed questions", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, seedResponse{QuestionsIndexed: n})
}
