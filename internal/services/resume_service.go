package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/resumepdf"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxImportSize caps uploaded PDFs for import.
const MaxImportSize = 5 << 20

type ResumeService struct {
	repo models.ResumeRepo
}

func NewResumeService(repo models.ResumeRepo) *ResumeService {
	return &ResumeService{repo: repo}
}

func (rs *ResumeService) Get(ctx context.Context, userID string) (*models.Resume, error) {
	return rs.repo.GetResumeByUser(ctx, userID)
}

// Save writes the caller's resume. An existing document keeps its id and
// creation time; otherwise a new one is inserted.
func (rs *ResumeService) Save(ctx context.Context, userID string, r *models.Resume) (*models.Resume, error) {
	r.UserID = userID
	r.PersonalInfo.FullName = strings.TrimSpace(r.PersonalInfo.FullName)
	r.Skills = models.NormalizeSkills(r.Skills)
	if r.Template == "" {
		r.Template = resumepdf.DefaultTemplate
	}
	if err := models.Validate.Struct(r); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := rs.repo.GetResumeByUser(ctx, userID)
	switch {
	case err == nil:
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	case errors.Is(err, models.ErrNotFound):
		r.ID = primitive.NilObjectID
		r.CreatedAt = now
	default:
		return nil, err
	}
	r.UpdatedAt = now
	return rs.repo.SaveResume(ctx, r)
}

func (rs *ResumeService) Delete(ctx context.Context, userID string) error {
	return rs.repo.DeleteResume(ctx, userID)
}

// RenderPDF writes the caller's resume as a PDF in the chosen template.
func (rs *ResumeService) RenderPDF(ctx context.Context, userID, template string, w io.Writer) error {
	if template != "" && !resumepdf.IsTemplate(template) {
		return fmt.Errorf("%w: template must be one of %s", helpers.ErrValidation, strings.Join(models.ResumeTemplates, ", "))
	}
	r, err := rs.repo.GetResumeByUser(ctx, userID)
	if err != nil {
		return err
	}
	// render into a buffer so a failure never leaves a half-written response
	var buf bytes.Buffer
	if err := resumepdf.Render(&buf, r, template); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// Import extracts a draft from an uploaded PDF. Nothing is stored.
func (rs *ResumeService) Import(file io.Reader, size int64) (*models.Resume, error) {
	if size > MaxImportSize {
		return nil, fmt.Errorf("%w: PDF must be at most %d MB", helpers.ErrValidation, MaxImportSize>>20)
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %v", err)
	}
	if len(data) > MaxImportSize {
		return nil, fmt.Errorf("%w: PDF must be at most %d MB", helpers.ErrValidation, MaxImportSize>>20)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: upload is not a PDF", helpers.ErrValidation)
	}
	text, err := resumepdf.ExtractText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", helpers.ErrValidation, err)
	}
	return resumepdf.DraftFromText(text), nil
}

// SuggestSummary drafts a professional summary from the stored experience
// and skills. It does not overwrite the saved summary.
func (rs *ResumeService) SuggestSummary(ctx context.Context, userID string) (string, error) {
	r, err := rs.repo.GetResumeByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return BuildSummary(r), nil
}

func BuildSummary(r *models.Resume) string {
	var parts []string

	lead := strings.TrimSpace(r.PersonalInfo.Headline)
	if lead == "" && len(r.Experience) > 0 {
		lead = r.Experience[0].Role
	}
	if lead == "" && len(r.Education) > 0 && r.Education[0].Degree != "" {
		lead = r.Education[0].Degree + " student"
	}
	if lead == "" {
		lead = "Motivated student"
	}
	parts = append(parts, lead)

	if n := len(r.Experience); n > 0 {
		companies := make([]string, 0, 2)
		for _, e := range r.Experience {
			if len(companies) == 2 {
				break
			}
			companies = append(companies, e.Company)
		}
		role := "role"
		if n > 1 {
			role = "roles"
		}
		parts[0] += fmt.Sprintf(" with hands-on experience across %d %s, including %s", n, role, strings.Join(companies, " and "))
	}
	parts[0] += "."

	if len(r.Skills) > 0 {
		skills := r.Skills
		if len(skills) > 5 {
			skills = skills[:5]
		}
		parts = append(parts, fmt.Sprintf("Skilled in %s.", joinList(skills)))
	}
	if len(r.Projects) > 0 {
		parts = append(parts, fmt.Sprintf("Built %s.", joinList(projectNames(r.Projects))))
	}
	if len(r.Education) > 0 && r.Education[0].Institution != "" {
		parts = append(parts, fmt.Sprintf("Studying at %s.", r.Education[0].Institution))
	}
	return strings.Join(parts, " ")
}

func projectNames(ps []models.ResumeProject) []string {
	out := make([]string, 0, 2)
	for _, p := range ps {
		if len(out) == 2 {
			break
		}
		out = append(out, p.Name)
	}
	return out
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
