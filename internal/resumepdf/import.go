package resumepdf

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of every page of the PDF in r.
func ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("unreadable PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %v", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %v", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %v", err)
	}
	return buf.String(), nil
}

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedInRe = regexp.MustCompile(`(?i)(https?://)?(www\.)?linkedin\.com/[^\s|,]+`)
	gitHubRe   = regexp.MustCompile(`(?i)(https?://)?(www\.)?github\.com/[^\s|,]+`)
	urlRe      = regexp.MustCompile(`(?i)https?://[^\s|,]+`)
	skillSep   = regexp.MustCompile(`[,|;•·]`)
)

var headings = map[string]string{
	"summary":              "summary",
	"professional summary": "summary",
	"profile":              "summary",
	"objective":            "summary",
	"about":                "summary",
	"about me":             "summary",
	"skills":               "skills",
	"technical skills":     "skills",
	"key skills":           "skills",
	"experience":           "other",
	"work experience":      "other",
	"education":            "other",
	"projects":             "other",
	"certifications":       "other",
	"languages":            "other",
	"achievements":         "other",
}

// heading returns the section a line opens and any text following a colon.
func heading(line string) (section, rest string, ok bool) {
	head, tail, _ := strings.Cut(line, ":")
	key := strings.ToLower(strings.TrimSpace(head))
	section, ok = headings[key]
	return section, strings.TrimSpace(tail), ok
}

// DraftFromText builds a resume skeleton from extracted PDF text so the
// builder can be pre-filled. Unrecognised content is ignored.
func DraftFromText(text string) *models.Resume {
	draft := &models.Resume{
		Skills:         []string{},
		Experience:     []models.Experience{},
		Education:      []models.Education{},
		Projects:       []models.ResumeProject{},
		Certifications: []models.Certification{},
		Languages:      []string{},
		Achievements:   []string{},
		Template:       DefaultTemplate,
	}
	draft.PersonalInfo.Email = emailRe.FindString(text)
	if m := linkedInRe.FindString(text); m != "" {
		draft.PersonalInfo.LinkedIn = withScheme(m)
	}
	if m := gitHubRe.FindString(text); m != "" {
		draft.PersonalInfo.GitHub = withScheme(m)
	}
	for _, m := range urlRe.FindAllString(text, -1) {
		if !strings.Contains(m, "linkedin.com") && !strings.Contains(m, "github.com") {
			draft.PersonalInfo.Website = m
			break
		}
	}
	if m := phoneRe.FindString(emailRe.ReplaceAllString(text, "")); m != "" {
		draft.PersonalInfo.Phone = strings.TrimSpace(m)
	}

	var (
		lines   []string
		section string
		summary []string
	)
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	for i, line := range lines {
		if s, rest, ok := heading(line); ok {
			section = s
			line = rest
			if line == "" {
				continue
			}
		}
		switch {
		case section == "" && draft.PersonalInfo.FullName == "" && looksLikeName(line):
			draft.PersonalInfo.FullName = line
			if i+1 < len(lines) && isHeadline(lines[i+1]) {
				draft.PersonalInfo.Headline = lines[i+1]
			}
		case section == "summary":
			summary = append(summary, line)
		case section == "skills":
			for _, s := range skillSep.Split(line, -1) {
				s = strings.TrimSpace(strings.TrimLeft(s, "-*• "))
				if s != "" {
					draft.Skills = append(draft.Skills, s)
				}
			}
		}
	}
	draft.Skills = models.NormalizeSkills(draft.Skills)
	draft.Summary = strings.Join(summary, " ")
	return draft
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@:/0123456789") {
		return false
	}
	words := strings.Fields(line)
	return len(words) >= 1 && len(words) <= 5
}

func isHeadline(line string) bool {
	if _, _, ok := heading(line); ok {
		return false
	}
	return len(line) <= 80 && !strings.ContainsAny(line, "@") && !phoneRe.MatchString(line)
}

func withScheme(link string) string {
	if strings.HasPrefix(strings.ToLower(link), "http") {
		return link
	}
	return "https://" + link
}
