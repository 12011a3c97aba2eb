package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

func AnalyticsOverview(as *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := as.Overview(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to load analytics")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(overview, ""))
	}
}
