package renderer

import (
	"bytes"
	"embed"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

//nolint:gochecknoglobals // parsed once at init
var (
	layouts    = template.Must(template.New("layouts").Funcs(funcs()).ParseFS(templateFS, "templates/*.md.tmpl"))
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// RenderMarkdown renders doc as markdown using layout. An empty layout
// falls back to the document's theme, then to classic.
func RenderMarkdown(doc *resume.Data, layout string) (content string, err error) {
	if doc == nil {
		err = errors.New("no resume to render")
		return content, err
	}

	if layout == "" {
		layout = doc.Theme.Layout
	}
	if layout == "" {
		layout = resume.LayoutClassic
	}
	if !slices.Contains(resume.Layouts(), layout) {
		err = errors.Errorf("unknown layout %q (want one of %s)", layout, strings.Join(resume.Layouts(), ", "))
		return content, err
	}

	var buf bytes.Buffer
	err = layouts.ExecuteTemplate(&buf, layout+".md.tmpl", doc)
	if err != nil {
		err = errors.Wrapf(err, "failed to render %s layout", layout)
		return content, err
	}

	content = blankLines.ReplaceAllString(strings.TrimSpace(buf.String()), "\n\n") + "\n"
	return content, err
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"contact":  contactLine,
		"dates":    resume.DateRange,
		"join":     joinParts,
		"list":     func(sep string, items []string) string { return joinParts(sep, items...) },
		"paren":    paren,
		"title":    title,
		"upper":    func(s string) string { return cases.Upper(language.English).String(s) },
		"social":   socialLine,
		"projects": projectNames,
	}
}

// joinParts joins the non-blank parts with sep.
func joinParts(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// title builds a Caser per call; Casers are not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func paren(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return "(" + s + ")"
}

func contactLine(doc *resume.Data) string {
	p := doc.Personal
	return joinParts(" | ", p.Email, p.Phone, p.Location, p.Website)
}

// socialLine renders links as "[Github](url)", title-casing the network.
func socialLine(links []resume.SocialLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		name := l.Network
		if name == "" {
			name = l.URL
		}
		parts = append(parts, "["+title(name)+"]("+l.URL+")")
	}
	return strings.Join(parts, " · ")
}

func projectNames(projects []resume.Project) string {
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return joinParts(", ", names...)
}
