package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

// RecordInteraction handles apply, register and waitlist actions. A repeat
// returns the original record with 200 instead of 201.
func RecordInteraction(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var req struct {
			Type   models.InteractionType `json:"type" binding:"required"`
			ItemID string                 `json:"itemId" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		rec, created, err := is.Record(c.Request.Context(), claims.UserID, req.Type, req.ItemID)
		if err != nil {
			respondError(c, err, "Failed to record interaction")
			return
		}
		if !created {
			c.JSON(http.StatusOK, models.SuccessResponse(rec, "Already recorded"))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(rec, "Recorded"))
	}
}

func ListMyInteractions(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		page, size := pageParams(c)

		items, err := is.ListMine(c.Request.Context(), claims.UserID, models.InteractionType(c.Query("type")), page, size)
		if err != nil {
			respondError(c, err, "Failed to list interactions")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(items))
	}
}

func ListAllInteractions(is *services.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		items, err := is.ListAll(c.Request.Context(), models.InteractionType(c.Query("type")), page, size)
		if err != nil {
			respondError(c, err, "Failed to list interactions")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(items))
	}
}
