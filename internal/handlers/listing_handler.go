package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

// Listing handlers are bound to one kind per route group: /jobs,
// /internships and /courses share them.

func ListListings(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		filter := models.ListingFilter{
			Search:        c.Query("search"),
			Location:      c.Query("location"),
			Type:          c.Query("type"),
			WorkMode:      c.Query("workMode"),
			Level:         c.Query("level"),
			Featured:      boolQuery(c, "featured"),
			MinExperience: floatQuery(c, "minExperience"),
		}

		items, err := ls.List(c.Request.Context(), kind, filter, page, size)
		if err != nil {
			respondError(c, err, "Failed to list "+kind.Collection())
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(items))
	}
}

func GetListing(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := ls.Get(c.Request.Context(), kind, paramID(c))
		if err != nil {
			respondError(c, err, "Failed to load "+string(kind))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(listing, ""))
	}
}

func CreateListing(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var listing models.Listing
		if !bindJSON(c, &listing) {
			return
		}

		created, err := ls.Create(c.Request.Context(), kind, &listing)
		if err != nil {
			respondError(c, err, "Failed to create "+string(kind))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Created successfully"))
	}
}

func UpdateListing(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update models.ListingUpdate
		if !bindJSON(c, &update) {
			return
		}

		updated, err := ls.Update(c.Request.Context(), kind, paramID(c), update)
		if err != nil {
			respondError(c, err, "Failed to update "+string(kind))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Updated successfully"))
	}
}

func DeleteListing(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ls.Delete(c.Request.Context(), kind, paramID(c)); err != nil {
			respondError(c, err, "Failed to delete "+string(kind))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Deleted successfully"))
	}
}

// UploadListingLogo takes a multipart "image" field.
func UploadListingLogo(ls *services.ListingService, kind models.ListingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, ok := imageFile(c)
		if !ok {
			return
		}
		defer file.Close()

		updated, err := ls.SetLogo(c.Request.Context(), kind, paramID(c), file)
		if err != nil {
			respondError(c, err, "Failed to upload image")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Image uploaded"))
	}
}

// Search serves GET /search?q=&kind=job,course&limit=.
func Search(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var kinds []models.ListingKind
		if raw := c.Query("kind"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				kind, err := models.ParseListingKind(part)
				if err != nil {
					c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
					return
				}
				kinds = append(kinds, kind)
			}
		}
		size, _ := strconv.Atoi(c.Query("limit"))

		hits, err := ls.Search(c.Request.Context(), c.Query("q"), kinds, size)
		if err != nil {
			respondError(c, err, "Search failed")
			return
		}
		c.JSON(http.StatusOK, models.ApiResponse{Success: true, Data: hits, Total: len(hits)})
	}
}
