package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/server/respond"
)

// RequireRoles lets the request through only when the caller holds one of roles.
// It must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := UserRoleFromContext(c)
		if _, ok := allowed[role]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "Insufficient permissions", map[string]any{
				"required": roles,
			})
			return
		}
		c.Next()
	}
}
