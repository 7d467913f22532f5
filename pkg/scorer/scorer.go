// Package scorer runs a fast, offline ATS pre-check over a resume's text projection.
package scorer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Violation is one rule hit.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     string `json:"line,omitempty"`
}

// Report is the outcome of a check.
type Report struct {
	Score      int            `json:"score"`
	Categories map[string]int `json:"categories"`
	Violations []Violation    `json:"violations"`
	WordCount  int            `json:"word_count"`
}

// Scorer checks resume text against ScoringRules.
type Scorer struct{}

// NewScorer creates a new scorer instance.
func NewScorer() (scorer *Scorer) {
	scorer = &Scorer{}
	return scorer
}

//nolint:gochecknoglobals // compiled once
var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	metricPattern = regexp.MustCompile(`\d|%|\$|€|£`)
	firstPerson   = regexp.MustCompile(`(?i)\b(i|me|my|mine)\b`)
)

// headings produced by resume.Data.PlainText.
//
//nolint:gochecknoglobals // lookup table
var headings = map[string]bool{
	"SUMMARY":    true,
	"EXPERIENCE": true,
	"EDUCATION":  true,
	"PROJECTS":   true,
	"SKILLS":     true,
	"LANGUAGES":  true,
}

// parsed is the text split into header lines and sections.
type parsed struct {
	header    []string
	sections  map[string][]string
	positions [][]string // bullets per experience entry
}

func parse(text string) (p parsed) {
	p.sections = map[string][]string{}
	current := ""
	prevBullet := true

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if headings[line] {
			current = line
			p.sections[current] = []string{}
			prevBullet = true
			continue
		}
		if current == "" {
			p.header = append(p.header, line)
			continue
		}
		p.sections[current] = append(p.sections[current], line)

		if current != "EXPERIENCE" {
			continue
		}
		bullet, isBullet := strings.CutPrefix(line, "* ")
		switch {
		case isBullet && len(p.positions) > 0:
			p.positions[len(p.positions)-1] = append(p.positions[len(p.positions)-1], bullet)
		case !isBullet && prevBullet:
			// A title line after bullets (or at the top) starts a new position.
			p.positions = append(p.positions, []string{})
		}
		prevBullet = isBullet
	}

	return p
}

// Check scores text, as produced by resume.Data.PlainText.
func (s *Scorer) Check(text string) (report Report) {
	p := parse(text)
	report.WordCount = len(strings.Fields(text))
	report.Violations = []Violation{}

	add := func(rule, message, line string) {
		report.Violations = append(report.Violations, Violation{
			Rule:     rule,
			Severity: ScoringRules[rule].Severity,
			Message:  message,
			Line:     line,
		})
	}

	header := strings.Join(p.header, "\n")
	if !emailPattern.MatchString(header) && !phonePattern.MatchString(header) {
		add(RuleMissingContact, "Add an email address or phone number", "")
	}
	if len(p.sections["SUMMARY"]) == 0 {
		add(RuleMissingSummary, "Add a two or three sentence profile summary", "")
	}
	if len(p.sections["SKILLS"]) == 0 {
		add(RuleMissingSkills, "List your core skills so keyword filters find them", "")
	}
	if len(p.positions) == 0 {
		add(RuleEmptyExperience, "Add at least one position", "")
	}
	if report.WordCount < minimumWords {
		add(RuleShortResume, fmt.Sprintf("Only %d words; aim for at least %d", report.WordCount, minimumWords), "")
	}

	for i, bullets := range p.positions {
		if len(bullets) < minimumBulletsPerRole {
			add(RuleFewBullets, fmt.Sprintf("Position %d has %d highlight(s)", i+1, len(bullets)), "")
		}
		for _, bullet := range bullets {
			s.checkBullet(bullet, add)
		}
	}

	report.Categories, report.Score = s.calculateScores(report.Violations)
	return report
}

func (s *Scorer) checkBullet(bullet string, add func(rule, message, line string)) {
	lower := strings.ToLower(bullet)

	if !metricPattern.MatchString(bullet) {
		add(RuleBulletNoMetric, "Quantify the result", bullet)
	}
	for _, opener := range weakOpeners {
		if strings.HasPrefix(lower, opener) {
			add(RuleWeakVerb, fmt.Sprintf("Replace %q with an action verb", opener), bullet)
			break
		}
	}
	if len(strings.Fields(bullet)) > maximumBulletWords {
		add(RuleLongBullet, "Split or tighten this highlight", bullet)
	}
	if firstPerson.MatchString(bullet) {
		add(RuleFirstPerson, "Drop first-person pronouns", bullet)
	}
}

// calculateScores deducts each rule's weight per hit, up to its MaxHits, then
// combines categories by CategoryWeights and applies SeverityCaps.
func (s *Scorer) calculateScores(violations []Violation) (categories map[string]int, overall int) {
	hits := map[string]int{}
	for _, v := range violations {
		hits[v.Rule]++
	}

	categories = map[string]int{}
	for category := range CategoryWeights {
		categories[category] = 100
	}

	capAt := 100
	for name, n := range hits {
		rule, exists := ScoringRules[name]
		if !exists {
			continue
		}
		if rule.MaxHits > 0 && n > rule.MaxHits {
			n = rule.MaxHits
		}
		categories[rule.Category] -= rule.Weight * n

		if limit, ok := SeverityCaps[rule.Severity]; ok && limit < capAt {
			capAt = limit
		}
	}

	total := 0.0
	for category, weight := range CategoryWeights {
		if categories[category] < 0 {
			categories[category] = 0
		}
		total += float64(categories[category]) * weight
	}

	overall = int(total + 0.5)
	if overall > capAt {
		overall = capAt
	}

	return categories, overall
}

// Suggestions turns a report into a short, ordered to-do list: critical first.
func (s *Scorer) Suggestions(report Report) (suggestions []string) {
	suggestions = []string{}
	rank := map[string]int{severityCritical: 0, severityMajor: 1, severityMinor: 2}

	seen := map[string]bool{}
	violations := append([]Violation(nil), report.Violations...)
	sort.SliceStable(violations, func(i, j int) bool {
		return rank[violations[i].Severity] < rank[violations[j].Severity]
	})

	for _, v := range violations {
		if seen[v.Rule] {
			continue
		}
		seen[v.Rule] = true
		suggestions = append(suggestions, ScoringRules[v.Rule].Description+": "+v.Message)
	}

	return suggestions
}
