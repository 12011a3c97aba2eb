package resumepdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/joshua-takyi/careerportal/internal/models"
)

const DefaultTemplate = "classic"

type layout struct {
	font     string
	accent   [3]int
	centered bool
	band     bool
}

var layouts = map[string]layout{
	"classic": {font: "Times", accent: [3]int{31, 56, 100}, centered: true},
	"modern":  {font: "Helvetica", accent: [3]int{0, 128, 128}, band: true},
	"minimal": {font: "Helvetica", accent: [3]int{60, 60, 60}},
}

// IsTemplate reports whether name is one of the layouts Render knows.
func IsTemplate(name string) bool {
	_, ok := layouts[name]
	return ok
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	l   layout
	w   float64
}

// Render writes r as an A4 PDF using the named template. An empty template
// falls back to the one stored on the resume, then to classic.
func Render(out io.Writer, r *models.Resume, template string) error {
	if template == "" {
		template = r.Template
	}
	if template == "" {
		template = DefaultTemplate
	}
	l, ok := layouts[template]
	if !ok {
		return fmt.Errorf("unknown resume template %q", template)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 16)
	pdf.SetTitle(r.PersonalInfo.FullName, true)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), l: l, w: pageW - left - right}

	w.header(r)
	if s := strings.TrimSpace(r.Summary); s != "" {
		w.section("Summary")
		w.paragraph(s)
	}
	if len(r.Experience) > 0 {
		w.section("Experience")
		for _, e := range r.Experience {
			end := e.EndDate
			if e.Current {
				end = "Present"
			}
			w.entry(e.Role+", "+e.Company, dateRange(e.StartDate, end))
			if e.Location != "" {
				w.muted(e.Location)
			}
			if e.Description != "" {
				w.paragraph(e.Description)
			}
			for _, h := range e.Highlights {
				w.bullet(h)
			}
		}
	}
	if len(r.Education) > 0 {
		w.section("Education")
		for _, e := range r.Education {
			w.entry(e.Institution, dateRange(e.StartDate, e.EndDate))
			degree := strings.TrimSpace(strings.Join(nonEmpty(e.Degree, e.Field), ", "))
			if e.Grade != "" {
				degree = strings.TrimSpace(degree + "  " + e.Grade)
			}
			if degree != "" {
				w.muted(degree)
			}
		}
	}
	if len(r.Skills) > 0 {
		w.section("Skills")
		w.paragraph(strings.Join(r.Skills, ", "))
	}
	if len(r.Projects) > 0 {
		w.section("Projects")
		for _, p := range r.Projects {
			w.entry(p.Name, p.Link)
			if p.Description != "" {
				w.paragraph(p.Description)
			}
			if len(p.Technologies) > 0 {
				w.muted(strings.Join(p.Technologies, ", "))
			}
		}
	}
	if len(r.Certifications) > 0 {
		w.section("Certifications")
		for _, c := range r.Certifications {
			w.bullet(strings.Join(nonEmpty(c.Name, c.Issuer, c.Date), ", "))
		}
	}
	if len(r.Languages) > 0 {
		w.section("Languages")
		w.paragraph(strings.Join(r.Languages, ", "))
	}
	if len(r.Achievements) > 0 {
		w.section("Achievements")
		for _, a := range r.Achievements {
			w.bullet(a)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render resume: %v", err)
	}
	return pdf.Output(out)
}

func (w *writer) header(r *models.Resume) {
	p := w.pdf
	align := "L"
	if w.l.centered {
		align = "C"
	}
	if w.l.band {
		p.SetFillColor(w.l.accent[0], w.l.accent[1], w.l.accent[2])
		p.Rect(0, 0, 6, 297, "F")
	}

	p.SetFont(w.l.font, "B", 20)
	p.SetTextColor(w.l.accent[0], w.l.accent[1], w.l.accent[2])
	p.CellFormat(w.w, 10, w.tr(r.PersonalInfo.FullName), "", 1, align, false, 0, "")

	if r.PersonalInfo.Headline != "" {
		p.SetFont(w.l.font, "", 12)
		p.SetTextColor(80, 80, 80)
		p.CellFormat(w.w, 6, w.tr(r.PersonalInfo.Headline), "", 1, align, false, 0, "")
	}

	pi := r.PersonalInfo
	contact := nonEmpty(pi.Email, pi.Phone, pi.Location, pi.LinkedIn, pi.GitHub, pi.Website)
	if len(contact) > 0 {
		p.SetFont(w.l.font, "", 9)
		p.SetTextColor(90, 90, 90)
		p.MultiCell(w.w, 4.5, w.tr(strings.Join(contact, "  |  ")), "", align, false)
	}
	p.Ln(2)
}

func (w *writer) section(title string) {
	p := w.pdf
	p.Ln(3)
	p.SetFont(w.l.font, "B", 12)
	p.SetTextColor(w.l.accent[0], w.l.accent[1], w.l.accent[2])
	p.CellFormat(w.w, 7, w.tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
	p.SetDrawColor(w.l.accent[0], w.l.accent[1], w.l.accent[2])
	left, _, _, _ := p.GetMargins()
	y := p.GetY()
	p.Line(left, y, left+w.w, y)
	p.Ln(1.5)
}

func (w *writer) entry(title, right string) {
	p := w.pdf
	p.SetFont(w.l.font, "B", 10.5)
	p.SetTextColor(20, 20, 20)
	if right == "" {
		p.CellFormat(w.w, 5.5, w.tr(title), "", 1, "L", false, 0, "")
		return
	}
	p.CellFormat(w.w*0.7, 5.5, w.tr(title), "", 0, "L", false, 0, "")
	p.SetFont(w.l.font, "", 9.5)
	p.CellFormat(w.w*0.3, 5.5, w.tr(right), "", 1, "R", false, 0, "")
}

func (w *writer) paragraph(text string) {
	w.pdf.SetFont(w.l.font, "", 10)
	w.pdf.SetTextColor(30, 30, 30)
	w.pdf.MultiCell(w.w, 5, w.tr(text), "", "L", false)
}

func (w *writer) muted(text string) {
	w.pdf.SetFont(w.l.font, "I", 9.5)
	w.pdf.SetTextColor(100, 100, 100)
	w.pdf.MultiCell(w.w, 4.5, w.tr(text), "", "L", false)
}

func (w *writer) bullet(text string) {
	w.pdf.SetFont(w.l.font, "", 10)
	w.pdf.SetTextColor(30, 30, 30)
	w.pdf.MultiCell(w.w, 5, w.tr("- "+text), "", "L", false)
}

func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
