// Package rendering provides functionality to render LaTeX resumes from templates.
package rendering

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/resume.tex.tmpl templates/sections.tex.tmpl templates/resume.cls
var templateFS embed.FS

const (
	// DocumentClassName is the LaTeX class the default template loads
	DocumentClassName = "resume"
	// DefaultMargin is the page margin in inches on every side
	DefaultMargin = 0.4

	leftDelim  = "<<"
	rightDelim = ">>"
)

// DocumentClass returns the embedded resume.cls, which must sit next to the
// .tex file when it is compiled.
func DocumentClass() []byte {
	data, err := templateFS.ReadFile("templates/" + DocumentClassName + ".cls")
	if err != nil {
		panic(fmt.Sprintf("embedded document class missing: %v", err))
	}
	return data
}

// Margins are page margins in inches
type Margins struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// DefaultMargins returns DefaultMargin on all four sides
func DefaultMargins() Margins {
	return Margins{Left: DefaultMargin, Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin}
}

// Options controls rendering. The zero value renders with the embedded
// template and default margins.
type Options struct {
	// TemplatePath overrides the embedded main template. The override uses
	// << and >> as delimiters and may call the "entry" and "item" templates.
	TemplatePath string
	Margins      *Margins
}

// TemplateData represents the data structure passed to the LaTeX template.
// Every string is already escaped.
type TemplateData struct {
	DocumentClass string
	Margins       Margins
	Name          string
	Phone         string
	Location      string
	Email         string
	EmailURL      string
	Links         []Link
	Skills        []SkillRow
	Experiences   []EntrySection
	Education     []EntrySection
	Projects      []ItemSection
	Certificates  []ItemSection
	Interests     string
}

// Link is a hyperlink in the header
type Link struct {
	URL  string
	Text string
}

// SkillRow is one row of the skills table
type SkillRow struct {
	Category string
	Items    string
}

// EntrySection is a dated entry with a bullet list (experience, education)
type EntrySection struct {
	Title    string
	Dates    string
	Subtitle string
	Location string
	Bullets  []string
}

// ItemSection is a single-line entry with an optional link (projects, certificates)
type ItemSection struct {
	Name    string
	Summary string
	Link    string
}

// Render produces LaTeX document source for the selected content.
// Categories with no selected entries are left out of the document.
func Render(selected *types.Selected, opts Options) (*types.RenderedDocument, error) {
	if selected == nil {
		return nil, &RenderError{Message: "nothing selected to render"}
	}

	tmpl, err := parseTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	data, err := buildTemplateData(selected, opts)
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return nil, &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return &types.RenderedDocument{Source: result.String()}, nil
}

// parseTemplate parses the main template (embedded or from templatePath)
// together with the embedded section templates.
func parseTemplate(templatePath string) (*template.Template, error) {
	var main []byte
	if templatePath == "" {
		var err error
		main, err = templateFS.ReadFile("templates/resume.tex.tmpl")
		if err != nil {
			return nil, &TemplateError{Message: "embedded template missing", Cause: err}
		}
	} else {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{Path: templatePath, Message: "template file not found", Cause: err}
			}
			return nil, &TemplateError{Path: templatePath, Message: "failed to read template file", Cause: err}
		}
		main = content
	}

	tmpl, err := template.New("resume").
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"escape":    EscapeLaTeX,
			"escapeURL": EscapeURL,
		}).
		Parse(string(main))
	if err != nil {
		return nil, &TemplateError{
			Path:    templatePath,
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	if _, err := tmpl.ParseFS(templateFS, "templates/sections.tex.tmpl"); err != nil {
		return nil, &TemplateError{
			Message: "failed to parse section templates",
			Cause:   err,
		}
	}

	return tmpl, nil
}

// buildTemplateData constructs the template data structure from the selection
func buildTemplateData(selected *types.Selected, opts Options) (*TemplateData, error) {
	h := selected.Header
	if err := h.Validate(); err != nil {
		return nil, &RenderError{
			Field:   "header",
			Message: "missing required fields",
			Cause:   err,
		}
	}

	margins := DefaultMargins()
	if opts.Margins != nil {
		margins = *opts.Margins
	}

	b := &builder{}
	data := &TemplateData{
		DocumentClass: DocumentClassName,
		Margins:       margins,
		Name:          b.text("header.name", h.FullName()),
		Phone:         b.text("header.phone", h.Phone),
		Location:      b.text("header.location", h.Location),
		Email:         b.text("header.email", h.Email),
		EmailURL:      b.url("header.email", h.Email),
	}

	if h.LinkedIn != "" {
		data.Links = append(data.Links, Link{URL: b.url("header.linkedin", h.LinkedIn), Text: b.text("header.linkedin", h.LinkedIn)})
	}
	if h.Website != "" {
		data.Links = append(data.Links, Link{URL: b.url("header.website", h.Website), Text: b.text("header.website", h.Website)})
	}

	for i, s := range selected.Skills {
		field := fmt.Sprintf("skills[%d]", i)
		data.Skills = append(data.Skills, SkillRow{
			Category: b.text(field+".category", s.Category),
			Items:    b.join(field+".items", s.Items, ", "),
		})
	}

	for i, e := range selected.Experiences {
		field := fmt.Sprintf("experiences[%d]", i)
		end := ""
		if e.EndDate != nil {
			end = *e.EndDate
		} else if e.StartDate != "" {
			end = "Present"
		}
		data.Experiences = append(data.Experiences, EntrySection{
			Title:    b.text(field+".role", e.Role),
			Dates:    b.text(field+".dates", dateRange(e.StartDate, end)),
			Subtitle: b.text(field+".company", e.Company),
			Location: b.text(field+".location", e.Location),
			Bullets:  b.list(field+".bullets", e.Bullets),
		})
	}

	for i, e := range selected.Education {
		field := fmt.Sprintf("education[%d]", i)
		data.Education = append(data.Education, EntrySection{
			Title:    b.text(field+".degree", strings.TrimSpace(e.Degree+" "+e.Subject)),
			Dates:    b.text(field+".dates", dateRange(year(e.StartYear), year(e.EndYear))),
			Subtitle: b.text(field+".school", e.School),
			Location: b.text(field+".location", e.Location),
			Bullets:  b.list(field+".bullets", e.Bullets),
		})
	}

	for i, p := range selected.Projects {
		field := fmt.Sprintf("projects[%d]", i)
		data.Projects = append(data.Projects, ItemSection{
			Name:    b.text(field+".name", p.Name),
			Summary: b.join(field+".bullets", p.Bullets, " "),
			Link:    b.url(field+".link", p.Link),
		})
	}

	for i, c := range selected.Certificates {
		field := fmt.Sprintf("certificates[%d]", i)
		data.Certificates = append(data.Certificates, ItemSection{
			Name:    b.text(field+".name", c.Name),
			Summary: b.join(field+".bullets", c.Bullets, " "),
			Link:    b.url(field+".link", c.Link),
		})
	}

	lines := make([]string, 0, len(selected.Interests))
	for i, in := range selected.Interests {
		if line := b.join(fmt.Sprintf("interests[%d].items", i), in.Items, ", "); line != "" {
			lines = append(lines, line)
		}
	}
	data.Interests = strings.Join(lines, " \\\\\n")

	if b.err != nil {
		return nil, b.err
	}
	return data, nil
}

// builder escapes field values and keeps the first invalid one
type builder struct {
	err error
}

func (b *builder) check(field, s string) bool {
	if b.err != nil {
		return false
	}
	if !utf8.ValidString(s) {
		b.err = &RenderError{Field: field, Message: "not valid UTF-8"}
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			b.err = &RenderError{Field: field, Message: fmt.Sprintf("contains control character %U", r)}
			return false
		}
	}
	return true
}

func (b *builder) text(field, s string) string {
	if !b.check(field, s) {
		return ""
	}
	return protectLeading(EscapeLaTeX(flatten(s)))
}

func (b *builder) url(field, s string) string {
	if !b.check(field, s) {
		return ""
	}
	return EscapeURL(strings.TrimSpace(s))
}

func (b *builder) list(field string, items []string) []string {
	out := make([]string, 0, len(items))
	for i, item := range items {
		out = append(out, b.text(fmt.Sprintf("%s[%d]", field, i), item))
	}
	return out
}

func (b *builder) join(field string, items []string, sep string) string {
	return strings.Join(b.list(field, items), sep)
}

// protectLeading keeps a value that starts with [ or * from being read as
// the optional argument or star of a preceding \item or \\
func protectLeading(s string) string {
	trimmed := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "*") {
		return "{}" + s
	}
	return s
}

// flatten turns line breaks into spaces so a field cannot open a new paragraph
func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

func year(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " -- " + end
	case start != "":
		return start
	default:
		return end
	}
}
