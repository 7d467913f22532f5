package resume

import (
	"slices"
	"strings"
)

// New creates an empty document for name using the classic layout.
func New(name string) (doc *Data) {
	doc = &Data{
		Personal:   Personal{Name: name},
		Social:     []SocialLink{},
		Experience: []Experience{},
		Education:  []Education{},
		Projects:   []Project{},
		Languages:  []Language{},
		Skills:     []string{},
		Theme:      Theme{Layout: LayoutClassic},
	}
	return doc
}

// Clone returns a deep copy. Edits always start from a clone so snapshots
// already held by a history are never touched.
func (d *Data) Clone() (c *Data) {
	if d == nil {
		return c
	}

	c = &Data{
		Personal:   d.Personal,
		Social:     slices.Clone(d.Social),
		Experience: make([]Experience, len(d.Experience)),
		Education:  slices.Clone(d.Education),
		Projects:   make([]Project, len(d.Projects)),
		Languages:  slices.Clone(d.Languages),
		Skills:     slices.Clone(d.Skills),
		Theme:      d.Theme,
	}

	for i, e := range d.Experience {
		e.Highlights = slices.Clone(e.Highlights)
		c.Experience[i] = e
	}
	for i, p := range d.Projects {
		p.Technologies = slices.Clone(p.Technologies)
		c.Projects[i] = p
	}

	return c
}

// SectionLen returns the number of entries in a list section.
func (d *Data) SectionLen(section string) (n int, ok bool) {
	ok = true
	switch section {
	case SectionSocial:
		n = len(d.Social)
	case SectionExperience:
		n = len(d.Experience)
	case SectionEducation:
		n = len(d.Education)
	case SectionProjects:
		n = len(d.Projects)
	case SectionLanguages:
		n = len(d.Languages)
	case SectionSkills:
		n = len(d.Skills)
	default:
		ok = false
	}
	return n, ok
}

// PlainText projects the document to text for scoring and prompts.
func (d *Data) PlainText() (text string) {
	var b strings.Builder
	p := d.Personal

	writeLine(&b, p.Name)
	writeLine(&b, p.Title)
	writeLine(&b, joinNonEmpty(" | ", p.Email, p.Phone, p.Location, p.Website))
	for _, s := range d.Social {
		writeLine(&b, s.Network+": "+s.URL)
	}

	if p.Summary != "" {
		b.WriteString("\nSUMMARY\n")
		writeLine(&b, p.Summary)
	}

	if len(d.Experience) > 0 {
		b.WriteString("\nEXPERIENCE\n")
		for _, e := range d.Experience {
			writeLine(&b, joinNonEmpty(" - ", e.Role, e.Company, e.Location))
			writeLine(&b, dateRange(e.StartDate, e.EndDate, e.Current))
			for _, h := range e.Highlights {
				writeLine(&b, "* "+h)
			}
		}
	}

	if len(d.Education) > 0 {
		b.WriteString("\nEDUCATION\n")
		for _, e := range d.Education {
			writeLine(&b, joinNonEmpty(", ", e.Degree, e.Field))
			writeLine(&b, joinNonEmpty(" - ", e.Institution, dateRange(e.StartDate, e.EndDate, false)))
		}
	}

	if len(d.Projects) > 0 {
		b.WriteString("\nPROJECTS\n")
		for _, pr := range d.Projects {
			writeLine(&b, joinNonEmpty(" - ", pr.Name, pr.URL))
			writeLine(&b, pr.Description)
			if len(pr.Technologies) > 0 {
				writeLine(&b, "Technologies: "+strings.Join(pr.Technologies, ", "))
			}
		}
	}

	if len(d.Skills) > 0 {
		b.WriteString("\nSKILLS\n")
		writeLine(&b, strings.Join(d.Skills, ", "))
	}

	if len(d.Languages) > 0 {
		b.WriteString("\nLANGUAGES\n")
		for _, l := range d.Languages {
			writeLine(&b, joinNonEmpty(" - ", l.Name, l.Proficiency))
		}
	}

	text = strings.TrimSpace(b.String())
	return text
}

func writeLine(b *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

func joinNonEmpty(sep string, parts ...string) (joined string) {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	joined = strings.Join(kept, sep)
	return joined
}

// dateRange formats "start - end", using "Present" for current positions.
func dateRange(start, end string, current bool) (r string) {
	if current {
		end = "Present"
	}
	r = joinNonEmpty(" - ", start, end)
	return r
}

// DateRange is the exported form used by templates.
func DateRange(start, end string, current bool) (r string) {
	r = dateRange(start, end, current)
	return r
}
