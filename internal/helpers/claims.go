package helpers

import "github.com/joshua-takyi/careerportal/internal/models"

// EnhancedClaims is the verified token plus the stored user document.
type EnhancedClaims struct {
	*CustomClaims
	Role        models.Role `json:"role"`
	UserID      string      `json:"uid"`
	Email       string      `json:"email,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
	IsBlocked   bool        `json:"isBlocked"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == models.RoleAdmin
}

func (ec *EnhancedClaims) HasRole(role models.Role) bool {
	return ec.Role == role
}

func (ec *EnhancedClaims) IsOwner(userID string) bool {
	return ec.UserID == userID
}

func (ec *EnhancedClaims) GetSafeRole() models.Role {
	if ec.Role == "" {
		return models.RoleUser
	}
	return ec.Role
}
