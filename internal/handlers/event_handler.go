package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/middleware"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

func eventFilter(c *gin.Context) models.EventFilter {
	return models.EventFilter{
		Search:           c.Query("search"),
		Location:         c.Query("location"),
		Category:         c.Query("category"),
		Mode:             c.Query("mode"),
		RegistrationType: c.Query("registrationType"),
		Status:           models.EventStatus(c.Query("status")),
	}
}

// ListEvents is the public listing; only approved events are returned.
func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		filter := eventFilter(c)
		filter.Status = ""

		events, err := es.ListPublic(c.Request.Context(), filter, page, size)
		if err != nil {
			respondError(c, err, "Failed to list events")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(events))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetPublic(c.Request.Context(), paramID(c))
		if err != nil {
			respondError(c, err, "Failed to load event")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

// ValidateEventStep checks one wizard step: POST /events/validate?step=N.
func ValidateEventStep(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		step, err := strconv.Atoi(c.Query("step"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("step must be a number between 1 and 5"))
			return
		}
		var event models.Event
		if !bindJSON(c, &event) {
			return
		}

		if err := es.ValidateStep(&event, step); err != nil {
			respondError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"step": step, "valid": true}, "Step is valid"))
	}
}

// SubmitEvent stores a wizard submission as pending. Signed-in submitters
// are recorded; anonymous submissions are allowed.
func SubmitEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.Event
		if !bindJSON(c, &event) {
			return
		}
		var submittedBy string
		if claims, ok := middleware.CurrentUser(c); ok {
			submittedBy = claims.UserID
		}

		created, err := es.Submit(c.Request.Context(), &event, submittedBy)
		if err != nil {
			respondError(c, err, "Failed to submit event")
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event submitted for review"))
	}
}

// UploadEventBanner stores a banner for an event that is still being filled
// in and returns its url.
func UploadEventBanner(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, ok := imageFile(c)
		if !ok {
			return
		}
		defer file.Close()

		var uploadedBy string
		if claims, ok := middleware.CurrentUser(c); ok {
			uploadedBy = claims.UserID
		}
		url, err := es.UploadBanner(c.Request.Context(), file, uploadedBy)
		if err != nil {
			respondError(c, err, "Failed to upload banner")
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"url": url}, "Banner uploaded"))
	}
}

func AdminListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		events, err := es.ListAdmin(c.Request.Context(), eventFilter(c), page, size)
		if err != nil {
			respondError(c, err, "Failed to list events")
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(events))
	}
}

func AdminGetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetAdmin(c.Request.Context(), paramID(c))
		if err != nil {
			respondError(c, err, "Failed to load event")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ApproveEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.Approve(c.Request.Context(), paramID(c))
		if err != nil {
			respondError(c, err, "Failed to approve event")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event approved"))
	}
}

// RejectEvent deletes the submission.
func RejectEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := es.Reject(c.Request.Context(), paramID(c)); err != nil {
			respondError(c, err, "Failed to reject event")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event rejected"))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update models.EventUpdate
		if !bindJSON(c, &update) {
			return
		}

		event, err := es.Update(c.Request.Context(), paramID(c), update)
		if err != nil {
			respondError(c, err, "Failed to update event")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated"))
	}
}

func SetEventBanner(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, ok := imageFile(c)
		if !ok {
			return
		}
		defer file.Close()

		event, err := es.SetBanner(c.Request.Context(), paramID(c), file)
		if err != nil {
			respondError(c, err, "Failed to upload banner")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Banner updated"))
	}
}
