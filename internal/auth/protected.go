package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
	"intelliview-api/internal/users"
)

// RegisterProtectedRoutes attaches the role probe routes used by the UI to gate pages.
func RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/protected/student", middleware.RequireRoles(users.RoleStudent, users.RoleAdmin), greet("Student area"))
	rg.GET("/protected/admin", middleware.RequireRoles(users.RoleAdmin), greet("Admin area"))
	rg.GET("/protected/coordinator", middleware.RequireRoles(users.RolePlacementCoordinator, users.RoleAdmin), greet("Placement coordinator area"))
	rg.GET("/protected/profile", greet("Profile"))
}

func greet(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"message": area,
			"user": gin.H{
				"id":    middleware.UserIDFromContext(c),
				"email": middleware.UserEmailFromContext(c),
				"role":  middleware.UserRoleFromContext(c),
			},
		})
	}
}
