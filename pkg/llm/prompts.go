package llm

import (
	"fmt"
	"strings"
)

// documentSchema mirrors resume.Data's JSON encoding.
const documentSchema = `{
  "personal": {
    "name": "", "title": "", "email": "", "phone": "",
    "location": "", "website": "", "summary": ""
  },
  "social": [{"network": "", "url": ""}],
  "experience": [{
    "company": "", "role": "", "location": "",
    "start_date": "YYYY-MM", "end_date": "YYYY-MM or empty", "current": false,
    "highlights": ["achievement with a concrete metric"]
  }],
  "education": [{
    "institution": "", "degree": "", "field": "",
    "start_date": "", "end_date": ""
  }],
  "projects": [{"name": "", "url": "", "description": "", "technologies": [""]}],
  "languages": [{"name": "", "proficiency": ""}],
  "skills": [""],
  "theme": {"layout": "classic", "accent": "", "font": ""}
}`

// buildGeneratePrompt asks for a whole document as JSON.
func buildGeneratePrompt(req GenerateRequest) (prompt string) {
	var extra strings.Builder
	if req.Target != "" {
		fmt.Fprintf(&extra, "\nTARGET ROLE:\n%s\n", req.Target)
	}
	if req.JobDescription != "" {
		fmt.Fprintf(&extra, "\nJOB DESCRIPTION (tailor emphasis and keywords to it):\n%s\n", req.JobDescription)
	}

	prompt = fmt.Sprintf(`You are an expert resume writer. Turn the candidate material below into a complete, structured resume.

CANDIDATE MATERIAL:
%s
%s
RULES:
- Use only facts present in the candidate material. Never invent employers, dates, degrees or metrics.
- Start every highlight with a strong action verb. Keep metrics the material states.
- Order experience most recent first.
- Leave a field empty rather than guessing.

Return ONLY valid JSON matching this structure exactly (no markdown, no commentary):
%s`, req.RawText, extra.String(), documentSchema)

	return prompt
}

// buildScorePrompt asks for an ATS-style score as JSON.
func buildScorePrompt(text, jd string) (prompt string) {
	target := "general applicant tracking systems and recruiters"
	jdSection := ""
	if strings.TrimSpace(jd) != "" {
		target = "the job description below"
		jdSection = fmt.Sprintf("\nJOB DESCRIPTION:\n%s\n", jd)
	}

	prompt = fmt.Sprintf(`You are an applicant tracking system auditor. Score this resume for %s.

RESUME:
%s
%s
Score 0-100 considering keyword coverage, quantified impact, clarity, structure and completeness of contact details.

Return ONLY valid JSON in this exact format (no markdown, no commentary):
{
  "score": 0,
  "summary": "one or two sentences",
  "strengths": ["..."],
  "improvements": ["specific, actionable change"],
  "missing_keywords": ["..."]
}`, target, text, jdSection)

	return prompt
}

// personaVoice describes how each persona talks.
var personaVoice = map[Persona]string{ //nolint:gochecknoglobals // lookup table
	PersonaRecruiter: "a tired technical recruiter who has read ten thousand resumes today",
	PersonaHiringMgr: "a blunt engineering hiring manager who only cares about evidence of impact",
	PersonaComedian:  "a stand-up comedian doing a tight five on this resume, savage but never cruel about the person",
}

// buildRoastPrompt asks for a critique in the persona's voice.
func buildRoastPrompt(text string, persona Persona) (prompt string) {
	voice, ok := personaVoice[persona]
	if !ok {
		voice = personaVoice[PersonaRecruiter]
	}

	prompt = fmt.Sprintf(`Roast this resume as %s.

Point at real weaknesses: vague bullets, missing metrics, buzzwords, formatting noise, gaps. End with the three changes that would help most.
Respond in markdown.

RESUME:
%s`, voice, text)

	return prompt
}

// buildRoadmapPrompt asks for a plan towards a career goal.
func buildRoadmapPrompt(text, goal string) (prompt string) {
	prompt = fmt.Sprintf(`You are a career coach. Given the resume below, write a practical roadmap to reach this goal:

GOAL:
%s

RESUME:
%s

Structure the answer in markdown as phases (0-3 months, 3-6 months, 6-12 months). For each phase list skills to build, projects that would prove them, and how the resume should change.`, goal, text)

	return prompt
}

// buildCoverLetterPrompt asks for a tailored cover letter.
func buildCoverLetterPrompt(text, jd string) (prompt string) {
	prompt = fmt.Sprintf(`You are an expert cover letter writer.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Write a cover letter in markdown, under 350 words, addressed to the hiring manager if the job description names one.
- Use only accomplishments present in the resume. Do not invent numbers, industries or domains.
- Connect two or three of the candidate's strongest results to the role's key requirements.
- No generic openers such as "I am writing to apply".

Return only the letter.`, jd, text)

	return prompt
}
