package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/auth"
	"intelliview-api/internal/questions"
	"intelliview-api/internal/resumes"
	"intelliview-api/internal/services/health"
	sharedauth "intelliview-api/internal/shared/auth"
	"intelliview-api/internal/shared/config"
	"intelliview-api/internal/shared/metrics"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
	"intelliview-api/internal/usage"
	"intelliview-api/internal/users"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config      config.Config
	Issuer      *sharedauth.Issuer
	Principals  middleware.PrincipalFunc
	Health      *health.Service
	Google      *auth.GoogleService
	Sessions    *auth.Sessions
	Stats       *auth.StatsHandler
	Users       *users.Handler
	Resumes     *resumes.Handler
	Questions   *questions.Handler
	Usage       *usage.Handler
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRateLimitRules(),
			GroupFor: middleware.RouteGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	healthHandler := func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	}
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)
	deps.Google.RegisterRoutes(api)
	deps.Sessions.RegisterRoutes(api)
	deps.Questions.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Issuer, deps.Principals))
	deps.Users.RegisterRoutes(authed)
	deps.Stats.RegisterRoutes(authed)
	deps.Resumes.RegisterRoutes(authed)
	deps.Questions.RegisterRoutes(authed)
	deps.Usage.RegisterRoutes(authed)
	auth.RegisterProtectedRoutes(authed)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(users.RoleAdmin))
	deps.Users.RegisterAdminRoutes(admin)

	if deps.Config.IsDevLike() {
		dev := authed.Group("/dev")
		deps.Usage.RegisterDevRoutes(dev)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
