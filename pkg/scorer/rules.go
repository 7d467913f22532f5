package scorer

// Rule represents a scoring rule.
type Rule struct {
	Name        string
	Category    string // completeness, impact, language
	Severity    string // critical, major, minor
	Description string
	Weight      int // Points deducted per violation
	MaxHits     int // Violations of this rule counted at most this many times
}

// Rule names.
const (
	RuleMissingContact    = "MISSING_CONTACT"
	RuleMissingSummary    = "MISSING_SUMMARY"
	RuleEmptyExperience   = "EMPTY_EXPERIENCE"
	RuleMissingSkills     = "MISSING_SKILLS"
	RuleBulletNoMetric    = "BULLET_WITHOUT_METRIC"
	RuleWeakVerb          = "WEAK_VERB"
	RuleShortResume       = "SHORT_RESUME"
	RuleLongBullet        = "LONG_BULLET"
	RuleFirstPerson       = "FIRST_PERSON"
	RuleFewBullets        = "FEW_BULLETS"
	categoryCompleteness  = "completeness"
	categoryImpact        = "impact"
	categoryLanguage      = "language"
	severityCritical      = "critical"
	severityMajor         = "major"
	severityMinor         = "minor"
	minimumWords          = 150
	maximumBulletWords    = 40
	minimumBulletsPerRole = 2
)

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	// Completeness Rules
	RuleMissingContact: {
		Name:        RuleMissingContact,
		Category:    categoryCompleteness,
		Severity:    severityCritical,
		Description: "No email address or phone number",
		Weight:      30,
		MaxHits:     1,
	},
	RuleMissingSummary: {
		Name:        RuleMissingSummary,
		Category:    categoryCompleteness,
		Severity:    severityMajor,
		Description: "No profile summary",
		Weight:      15,
		MaxHits:     1,
	},
	RuleEmptyExperience: {
		Name:        RuleEmptyExperience,
		Category:    categoryCompleteness,
		Severity:    severityCritical,
		Description: "No work experience listed",
		Weight:      40,
		MaxHits:     1,
	},
	RuleMissingSkills: {
		Name:        RuleMissingSkills,
		Category:    categoryCompleteness,
		Severity:    severityMajor,
		Description: "No skills section for keyword matching",
		Weight:      15,
		MaxHits:     1,
	},
	RuleShortResume: {
		Name:        RuleShortResume,
		Category:    categoryCompleteness,
		Severity:    severityMinor,
		Description: "Fewer than 150 words overall",
		Weight:      10,
		MaxHits:     1,
	},

	// Impact Rules
	RuleBulletNoMetric: {
		Name:        RuleBulletNoMetric,
		Category:    categoryImpact,
		Severity:    severityMinor,
		Description: "Highlight without a number, percentage or amount",
		Weight:      8,
		MaxHits:     8,
	},
	RuleFewBullets: {
		Name:        RuleFewBullets,
		Category:    categoryImpact,
		Severity:    severityMajor,
		Description: "Position with fewer than two highlights",
		Weight:      15,
		MaxHits:     4,
	},

	// Language Rules
	RuleWeakVerb: {
		Name:        RuleWeakVerb,
		Category:    categoryLanguage,
		Severity:    severityMinor,
		Description: "Highlight opens with a passive or vague phrase",
		Weight:      10,
		MaxHits:     6,
	},
	RuleLongBullet: {
		Name:        RuleLongBullet,
		Category:    categoryLanguage,
		Severity:    severityMinor,
		Description: "Highlight longer than 40 words",
		Weight:      5,
		MaxHits:     4,
	},
	RuleFirstPerson: {
		Name:        RuleFirstPerson,
		Category:    categoryLanguage,
		Severity:    severityMinor,
		Description: "First-person pronouns in highlights",
		Weight:      5,
		MaxHits:     4,
	},
}

//nolint:gochecknoglobals // Scoring configuration constants
var CategoryWeights = map[string]float64{
	categoryCompleteness: 0.40, // 40%
	categoryImpact:       0.40, // 40%
	categoryLanguage:     0.20, // 20%
}

//nolint:gochecknoglobals // Scoring configuration constants
var weakOpeners = []string{
	"responsible for",
	"worked on",
	"helped",
	"assisted",
	"involved in",
	"was involved in",
	"participated in",
	"tasked with",
	"duties included",
	"in charge of",
}

//nolint:gochecknoglobals // Scoring configuration constants
var SeverityCaps = map[string]int{
	severityCritical: 60, // Any critical violation caps the overall score at 60
	severityMajor:    85, // Any major violation caps the overall score at 85
}
