package renderer

import (
	"strings"
	"testing"

	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *resume.Data {
	doc := resume.New("Jane Doe")
	doc.Personal.Title = "Platform Engineer"
	doc.Personal.Email = "jane@example.com"
	doc.Personal.Location = "Berlin"
	doc.Personal.Summary = "Builds boring, reliable infrastructure."
	doc.Social = []resume.SocialLink{{Network: "github", URL: "https://github.com/jane"}}
	doc.Experience = []resume.Experience{{
		Company:    "Acme",
		Role:       "Staff SRE",
		Location:   "Remote",
		StartDate:  "2021-01",
		Current:    true,
		Highlights: []string{"Cut deploy time by 80%", "Led 40 service migrations"},
	}}
	doc.Education = []resume.Education{{Institution: "TU Berlin", Degree: "MSc", Field: "Computer Science", EndDate: "2015"}}
	doc.Projects = []resume.Project{{Name: "kubectl-x", URL: "https://x.dev", Description: "Context switcher", Technologies: []string{"Go"}}}
	doc.Languages = []resume.Language{{Name: "German", Proficiency: "C1"}}
	doc.Skills = []string{"Go", "Kubernetes"}
	return doc
}

func TestRenderMarkdownLayouts(t *testing.T) {
	tests := []struct {
		layout string
		want   []string
	}{
		{
			layout: resume.LayoutClassic,
			want: []string{
				"# Jane Doe\n\n**Platform Engineer**\n\njane@example.com | Berlin",
				"## Summary\n\nBuilds boring, reliable infrastructure.",
				"### Staff SRE, Acme\n\n*2021-01 - Present | Remote*\n\n- Cut deploy time by 80%\n- Led 40 service migrations",
				"### MSc, Computer Science\n\nTU Berlin | 2015",
				"### kubectl-x\n\nContext switcher\n\n<https://x.dev>\n\n*Go*",
				"## Skills\n\nGo, Kubernetes",
				"## Languages\n\n- German: C1",
			},
		},
		{
			layout: resume.LayoutModern,
			want: []string{
				"# JANE DOE\n\n### Platform Engineer",
				"[Github](https://github.com/jane)",
				"> Builds boring, reliable infrastructure.",
				"## Core Skills\n\n`Go` · `Kubernetes`",
				"### Acme\n\n**Staff SRE** | 2021-01 - Present · Remote\n\n- Cut deploy time by 80%",
				"- **kubectl-x**: Context switcher (<https://x.dev>)",
				"- **MSc, Computer Science**, TU Berlin (2015)",
				"German (C1)",
			},
		},
		{
			layout: resume.LayoutCompact,
			want: []string{
				"# Jane Doe\n\nPlatform Engineer | jane@example.com | Berlin",
				"**Skills:** Go, Kubernetes",
				"**Staff SRE**, Acme (2021-01 - Present)\n\n- Cut deploy time by 80%\n- Led 40 service migrations",
				"- MSc, TU Berlin (2015)",
				"**Projects:** kubectl-x",
				"**Languages:** German (C1)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			content, err := RenderMarkdown(sampleDoc(), tt.layout)
			require.NoError(t, err)

			for _, want := range tt.want {
				assert.Contains(t, content, want)
			}
			assert.NotContains(t, content, "\n\n\n")
			assert.True(t, strings.HasSuffix(content, "\n"))
			assert.False(t, strings.HasSuffix(content, "\n\n"))
		})
	}
}

func TestRenderMarkdownEmptyDocument(t *testing.T) {
	for _, layout := range resume.Layouts() {
		content, err := RenderMarkdown(resume.New("Jane Doe"), layout)
		require.NoError(t, err)
		assert.NotContains(t, content, "##", layout)
		assert.NotContains(t, content, "\n\n\n", layout)
	}
}

func TestRenderMarkdownLayoutFallback(t *testing.T) {
	doc := sampleDoc()
	doc.Theme.Layout = resume.LayoutModern

	content, err := RenderMarkdown(doc, "")
	require.NoError(t, err)
	assert.Contains(t, content, "# JANE DOE")

	doc.Theme.Layout = ""
	content, err = RenderMarkdown(doc, "")
	require.NoError(t, err)
	assert.Contains(t, content, "# Jane Doe")
}

func TestRenderMarkdownErrors(t *testing.T) {
	_, err := RenderMarkdown(nil, "")
	assert.Error(t, err)

	_, err = RenderMarkdown(sampleDoc(), "fancy")
	assert.ErrorContains(t, err, "unknown layout")
}
