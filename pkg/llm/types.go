package llm

// GenerateRequest asks for a complete resume document.
type GenerateRequest struct {
	// RawText is whatever the candidate has: an old resume, notes, a LinkedIn export.
	RawText string `json:"raw_text"`
	// JobDescription, when set, tailors the result to a posting.
	JobDescription string `json:"job_description,omitempty"`
	// Target is a free-form role or seniority hint, e.g. "staff platform engineer".
	Target string `json:"target,omitempty"`
	// Layout is copied into the generated document's theme.
	Layout string `json:"layout,omitempty"`
}

// ScoreResponse is an ATS-style assessment of a resume.
type ScoreResponse struct {
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	MissingKeywords []string `json:"missing_keywords"`
}

// Persona sets the tone of a roast.
type Persona string

// Roast personas.
const (
	PersonaRecruiter Persona = "recruiter"
	PersonaHiringMgr Persona = "hiring-manager"
	PersonaComedian  Persona = "comedian"
)

// Personas returns the supported roast personas.
func Personas() (personas []Persona) {
	personas = []Persona{PersonaRecruiter, PersonaHiringMgr, PersonaComedian}
	return personas
}
