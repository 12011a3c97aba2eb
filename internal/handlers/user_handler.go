package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

func UpdateMe(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var req struct {
			DisplayName string `json:"displayName"`
		}
		if !bindJSON(c, &req) {
			return
		}

		user, err := u.UpdateProfile(c.Request.Context(), claims.UserID, req.DisplayName)
		if err != nil {
			respondError(c, err, "Failed to update profile")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Profile updated"))
	}
}

// ListUsers serves the admin users table: ?search, ?role, ?blocked, paged.
func ListUsers(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		filter := models.UserFilter{
			Search:  c.Query("search"),
			Role:    models.Role(c.Query("role")),
			Blocked: boolQuery(c, "blocked"),
		}

		users, err := u.ListUsers(c.Request.Context(), filter, page, size)
		if err != nil {
			respondError(c, err, "Failed to list users")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(users))
	}
}

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := u.GetUser(c.Request.Context(), paramID(c))
		if err != nil {
			respondError(c, err, "Failed to load user")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func SetUserBlocked(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var req struct {
			Blocked *bool `json:"blocked" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		user, err := u.SetBlocked(c.Request.Context(), claims.UserID, paramID(c), *req.Blocked)
		if err != nil {
			respondError(c, err, "Failed to update user")
			return
		}
		message := "User unblocked"
		if user.IsBlocked {
			message = "User blocked"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, message))
	}
}

func SetUserRole(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var req struct {
			Role models.Role `json:"role" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		user, err := u.SetRole(c.Request.Context(), claims.UserID, paramID(c), req.Role)
		if err != nil {
			respondError(c, err, "Failed to update user")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Role updated"))
	}
}

func DeleteUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		if err := u.DeleteUser(c.Request.Context(), claims.UserID, paramID(c)); err != nil {
			respondError(c, err, "Failed to delete user")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "User deleted successfully"))
	}
}
