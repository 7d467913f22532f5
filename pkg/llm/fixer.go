package llm

import (
	"regexp"
	"strings"

	"github.com/nikogura/resume-studio/pkg/resume"
)

// Fixer rewrites common weak phrasing in generated resumes.
type Fixer struct {
	openerPatterns   []FixPattern
	buzzwordPatterns []FixPattern
}

// FixPattern defines a search-and-fix pattern.
type FixPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// NewFixer creates a fixer with the built-in patterns.
func NewFixer() (fixer *Fixer) {
	fixer = &Fixer{
		openerPatterns:   buildOpenerPatterns(),
		buzzwordPatterns: buildBuzzwordPatterns(),
	}
	return fixer
}

// Apply returns a polished copy of doc and the names of the patterns that
// fired. When nothing fires doc itself is returned, so handing the result
// to an editing session adds no undo step.
func (f *Fixer) Apply(doc *resume.Data) (fixed *resume.Data, applied []string) {
	applied = []string{}
	if doc == nil {
		return fixed, applied
	}

	next := doc.Clone()
	seen := map[string]bool{}
	record := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				applied = append(applied, name)
			}
		}
	}

	var names []string
	next.Personal.Summary, names = f.fix(next.Personal.Summary, f.buzzwordPatterns)
	record(names)

	for i := range next.Experience {
		for j, highlight := range next.Experience[i].Highlights {
			highlight, names = f.fix(highlight, f.openerPatterns)
			record(names)
			highlight, names = f.fix(highlight, f.buzzwordPatterns)
			record(names)
			next.Experience[i].Highlights[j] = capitalize(highlight)
		}
	}

	if len(applied) == 0 {
		fixed = doc
		return fixed, applied
	}

	fixed = next
	return fixed, applied
}

// fix applies each matching pattern and reports which ones fired.
func (f *Fixer) fix(content string, patterns []FixPattern) (fixed string, names []string) {
	fixed = content

	for _, pattern := range patterns {
		if pattern.Pattern.MatchString(fixed) {
			fixed = pattern.Pattern.ReplaceAllString(fixed, pattern.Replacement)
			names = append(names, pattern.Name)
		}
	}

	fixed = strings.Join(strings.Fields(fixed), " ")
	return fixed, names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// buildOpenerPatterns replaces passive bullet openers with action verbs.
func buildOpenerPatterns() (patterns []FixPattern) {
	patterns = []FixPattern{
		{
			Name:        "Responsible for",
			Pattern:     regexp.MustCompile(`(?i)^responsible for (managing|leading|running) `),
			Replacement: `Led `,
		},
		{
			Name:        "Responsible for",
			Pattern:     regexp.MustCompile(`(?i)^responsible for `),
			Replacement: `Owned `,
		},
		{
			Name:        "Worked on",
			Pattern:     regexp.MustCompile(`(?i)^worked on `),
			Replacement: `Built `,
		},
		{
			Name:        "Helped",
			Pattern:     regexp.MustCompile(`(?i)^helped (to )?`),
			Replacement: `Contributed to `,
		},
		{
			Name:        "Was involved in",
			Pattern:     regexp.MustCompile(`(?i)^(was )?involved in `),
			Replacement: `Contributed to `,
		},
		{
			Name:        "Tasked with",
			Pattern:     regexp.MustCompile(`(?i)^tasked with `),
			Replacement: `Delivered `,
		},
	}

	return patterns
}

// buildBuzzwordPatterns strips filler that recruiters skip.
func buildBuzzwordPatterns() (patterns []FixPattern) {
	patterns = []FixPattern{
		{
			Name:        "Proven track record",
			Pattern:     regexp.MustCompile(`(?i)\b(a )?proven track record (of|in) `),
			Replacement: ``,
		},
		{
			Name:        "Results-driven",
			Pattern:     regexp.MustCompile(`(?i)\bresults[- ]driven `),
			Replacement: ``,
		},
		{
			Name:        "Team player",
			Pattern:     regexp.MustCompile(`(?i),? ?(and )?(a )?team player\b`),
			Replacement: ``,
		},
		{
			Name:        "Synergy",
			Pattern:     regexp.MustCompile(`(?i)\bsynerg(y|ies|ize|ized)\b`),
			Replacement: `collaboration`,
		},
		{
			Name:        "Utilized",
			Pattern:     regexp.MustCompile(`(?i)\butiliz(e|ed|ing)\b`),
			Replacement: `us$1`,
		},
	}

	return patterns
}
