package scorer

import (
	"strings"
	"testing"

	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strongDoc() *resume.Data {
	doc := resume.New("Jane Doe")
	doc.Personal.Title = "Platform Engineer"
	doc.Personal.Email = "jane@example.com"
	doc.Personal.Summary = strings.Repeat("Designs reliable distributed systems for fast growing teams. ", 16)
	doc.Experience = []resume.Experience{
		{
			Company: "Acme", Role: "Staff SRE", StartDate: "2021-01", Current: true,
			Highlights: []string{
				"Cut deploy time by 80% by rebuilding the CI pipeline",
				"Reduced cloud spend by $1.2M a year through rightsizing",
			},
		},
		{
			Company: "Initech", Role: "SRE", StartDate: "2017-03", EndDate: "2020-12",
			Highlights: []string{
				"Led migration of 40 services to Kubernetes",
				"Raised availability to 99.99% across three regions",
			},
		},
	}
	doc.Skills = []string{"Go", "Kubernetes", "Terraform"}
	return doc
}

func rules(report Report) (names []string) {
	for _, v := range report.Violations {
		names = append(names, v.Rule)
	}
	return names
}

func TestCheckStrongResume(t *testing.T) {
	report := NewScorer().Check(strongDoc().PlainText())

	assert.Empty(t, report.Violations)
	assert.Equal(t, 100, report.Score)
	assert.GreaterOrEqual(t, report.WordCount, minimumWords)
	for category, score := range report.Categories {
		assert.Equal(t, 100, score, category)
	}
}

func TestCheckEmptyResume(t *testing.T) {
	report := NewScorer().Check(resume.New("Jane Doe").PlainText())

	assert.ElementsMatch(t, []string{
		RuleMissingContact,
		RuleMissingSummary,
		RuleMissingSkills,
		RuleEmptyExperience,
		RuleShortResume,
	}, rules(report))
	assert.Equal(t, 0, report.Categories[categoryCompleteness])
	assert.Equal(t, 60, report.Score)
}

func TestCheckBullets(t *testing.T) {
	doc := strongDoc()
	doc.Experience[1].Highlights = []string{
		"Responsible for the build system",
		"I cut costs by 20%",
		strings.Repeat("word ", maximumBulletWords+1) + "10x",
	}
	doc.Experience[0].Highlights = doc.Experience[0].Highlights[:1]

	report := NewScorer().Check(doc.PlainText())

	assert.ElementsMatch(t, []string{
		RuleFewBullets,
		RuleBulletNoMetric,
		RuleWeakVerb,
		RuleFirstPerson,
		RuleLongBullet,
	}, rules(report))

	for _, v := range report.Violations {
		if v.Rule == RuleWeakVerb {
			assert.Equal(t, "Responsible for the build system", v.Line)
		}
	}
	assert.Less(t, report.Score, 100)
	assert.LessOrEqual(t, report.Score, SeverityCaps[severityMajor])
}

func TestCheckPhoneCountsAsContact(t *testing.T) {
	doc := strongDoc()
	doc.Personal.Email = ""
	doc.Personal.Phone = "+1 (555) 123-4567"

	report := NewScorer().Check(doc.PlainText())
	assert.NotContains(t, rules(report), RuleMissingContact)
}

func TestMaxHitsBoundsDeduction(t *testing.T) {
	violations := []Violation{}
	for i := 0; i < 50; i++ {
		violations = append(violations, Violation{Rule: RuleBulletNoMetric, Severity: severityMinor})
	}

	categories, overall := NewScorer().calculateScores(violations)

	rule := ScoringRules[RuleBulletNoMetric]
	assert.Equal(t, 100-rule.Weight*rule.MaxHits, categories[categoryImpact])
	assert.Equal(t, 74, overall)
}

func TestCheckDoesNotDependOnLayout(t *testing.T) {
	doc := strongDoc()
	text := doc.PlainText()

	modern := doc.Clone()
	modern.Theme.Layout = resume.LayoutModern

	assert.Equal(t, NewScorer().Check(text), NewScorer().Check(modern.PlainText()))
}

func TestSuggestions(t *testing.T) {
	s := NewScorer()
	report := s.Check(resume.New("Jane Doe").PlainText())

	suggestions := s.Suggestions(report)
	require.Len(t, suggestions, 5)
	assert.True(t, strings.HasPrefix(suggestions[0], ScoringRules[RuleMissingContact].Description) ||
		strings.HasPrefix(suggestions[0], ScoringRules[RuleEmptyExperience].Description))
	assert.True(t, strings.HasPrefix(suggestions[4], ScoringRules[RuleShortResume].Description))
}
