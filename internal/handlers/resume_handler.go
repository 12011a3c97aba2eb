package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

func GetMyResume(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		resume, err := rs.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err, "Failed to load resume")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(resume, ""))
	}
}

func SaveMyResume(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var resume models.Resume
		if !bindJSON(c, &resume) {
			return
		}

		saved, err := rs.Save(c.Request.Context(), claims.UserID, &resume)
		if err != nil {
			respondError(c, err, "Failed to save resume")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, "Resume saved"))
	}
}

func DeleteMyResume(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		if err := rs.Delete(c.Request.Context(), claims.UserID); err != nil {
			respondError(c, err, "Failed to delete resume")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Resume deleted"))
	}
}

// DownloadResumePDF renders the caller's resume: GET /resumes/me/pdf?template=.
func DownloadResumePDF(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := rs.RenderPDF(c.Request.Context(), claims.UserID, c.Query("template"), &buf); err != nil {
			respondError(c, err, "Failed to render resume")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="resume.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// ImportResume reads a multipart "file" PDF and returns a draft. Nothing is
// saved.
func ImportResume(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, ok := formFile(c, "file", services.MaxImportSize)
		if !ok {
			return
		}
		defer file.Close()

		draft, err := rs.Import(file, header.Size)
		if err != nil {
			respondError(c, err, "Failed to import resume")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(draft, "Draft extracted, review before saving"))
	}
}

func SuggestSummary(rs *services.ResumeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		summary, err := rs.SuggestSummary(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err, "Failed to build summary")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"summary": summary}, ""))
	}
}
