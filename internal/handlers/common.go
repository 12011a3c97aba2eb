package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/middleware"
	"github.com/joshua-takyi/careerportal/internal/models"
)

// maxImageSize caps banner, logo and thumbnail uploads.
const maxImageSize = 5 << 20

// currentUser reads the claims set by AuthMiddleware and replies 401 when
// they are missing.
func currentUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	return claims, true
}

// respondError maps a service error onto a status code and the response
// envelope. Server errors are attached to the context for ErrorHandler and
// their details are not sent to the client.
func respondError(c *gin.Context, err error, message string) {
	status := helpers.StatusFromError(err)
	switch {
	case status >= http.StatusInternalServerError && !errors.Is(err, helpers.ErrUnavailable):
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse(message))
	case helpers.ValidationDetails(err) != nil:
		c.JSON(status, models.ValidationResponse("validation failed", helpers.ValidationDetails(err)))
	default:
		c.JSON(status, models.ErrorResponse(err.Error()))
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationResponse("invalid request payload", err.Error()))
		return false
	}
	return true
}

// pageParams reads ?page and ?limit. A missing or malformed value yields 0,
// which the services replace with their defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("limit"))
	return page, size
}

func boolQuery(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func floatQuery(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &v
}

// formFile opens the multipart file under field, rejecting oversized
// uploads before they reach the service.
func formFile(c *gin.Context, field string, limit int64) (multipart.File, *multipart.FileHeader, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(field+" file is required"))
		return nil, nil, false
	}
	if header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse(field+" file is too large"))
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to read "+field+" file"))
		return nil, nil, false
	}
	return file, header, true
}

// imageFile is formFile for the "image" field that also rejects anything
// whose content does not sniff as an image.
func imageFile(c *gin.Context) (multipart.File, bool) {
	file, _, ok := formFile(c, "image", maxImageSize)
	if !ok {
		return nil, false
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		file.Close()
		c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse("image must be a PNG, JPEG, GIF or WebP file"))
		return nil, false
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to read image file"))
		return nil, false
	}
	return file, true
}

func paramID(c *gin.Context) string {
	return strings.Trim(strings.TrimSpace(c.Param("id")), "\"'")
}
