package resume

// Data is the resume document edited through a history.
type Data struct {
	Personal   Personal     `json:"personal"`
	Social     []SocialLink `json:"social"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
	Languages  []Language   `json:"languages"`
	Skills     []string     `json:"skills"`
	Theme      Theme        `json:"theme"`
}

// Personal holds contact details and the profile summary.
type Personal struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
}

// SocialLink is a profile on an external network.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Experience is a single position.
type Experience struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Location   string   `json:"location"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Current    bool     `json:"current"`
	Highlights []string `json:"highlights"`
}

// Education is a degree or course of study.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GPA         string `json:"gpa"`
}

// Project is a personal or open source project.
type Project struct {
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Language is a spoken language and proficiency.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Theme selects the visual layout used when rendering.
type Theme struct {
	Layout string `json:"layout"`
	Accent string `json:"accent"`
	Font   string `json:"font"`
}

// Section names addressable by list edits.
const (
	SectionSocial     = "social"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionProjects   = "projects"
	SectionLanguages  = "languages"
	SectionSkills     = "skills"
)

// Layout names understood by the renderer.
const (
	LayoutClassic = "classic"
	LayoutModern  = "modern"
	LayoutCompact = "compact"
)

// Sections returns every list section name, in document order.
func Sections() (names []string) {
	names = []string{
		SectionSocial,
		SectionExperience,
		SectionEducation,
		SectionProjects,
		SectionLanguages,
		SectionSkills,
	}
	return names
}

// Layouts returns the supported layout names.
func Layouts() (names []string) {
	names = []string{LayoutClassic, LayoutModern, LayoutCompact}
	return names
}
