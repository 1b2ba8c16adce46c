package users

import (
	"strings"
	"time"
)

// Roles recognised by access control.
const (
	RoleStudent              = "STUDENT"
	RoleAdmin                = "ADMIN"
	RolePlacementCoordinator = "PLACEMENT_COORDINATOR"
)

// User is an account that can sign in and own résumés.
type User struct {
	ID          string     `json:"id"`
	GoogleID    string     `json:"-"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PictureURL  string     `json:"pictureUrl"`
	Role        string     `json:"role"`
	IsValidated bool       `json:"isValidated"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// GoogleProfile is the identity returned by Google's userinfo endpoint.
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// NormalizeRole maps a role name onto the known set; ok is false for unknown roles.
func NormalizeRole(raw string) (string, bool) {
	switch r := strings.ToUpper(strings.TrimSpace(raw)); r {
	case RoleStudent, RoleAdmin, RolePlacementCoordinator:
		return r, true
	case "":
		return RoleStudent, true
	default:
		return "", false
	}
}
