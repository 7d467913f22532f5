package resume

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
)

// Load reads a resume document from a JSON file.
func Load(path string) (doc *Data, err error) {
	// Read file
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume file: %s", path)
		return doc, err
	}

	doc, err = Decode(fileData)
	if err != nil {
		err = errors.Wrapf(err, "failed to load resume: %s", path)
		return doc, err
	}

	return doc, err
}

// Decode parses and validates a JSON resume document.
func Decode(data []byte) (doc *Data, err error) {
	doc = &Data{}
	err = json.Unmarshal(data, doc)
	if err != nil {
		err = errors.Wrap(err, "failed to parse resume JSON")
		doc = nil
		return doc, err
	}

	doc.Normalize()

	err = doc.Validate()
	if err != nil {
		err = errors.Wrap(err, "resume validation failed")
		doc = nil
		return doc, err
	}

	return doc, err
}

// Save writes doc as indented JSON, creating the parent directory.
func Save(doc *Data, path string) (err error) {
	if doc == nil {
		err = errors.New("no resume to save")
		return err
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create resume directory: %s", dir)
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal resume")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write resume file: %s", path)
		return err
	}

	return err
}

// Validate checks that the document is well-formed.
func (d *Data) Validate() (err error) {
	if d.Personal.Name == "" {
		err = errors.New("personal name is required")
		return err
	}

	if d.Theme.Layout != "" && !slices.Contains(Layouts(), d.Theme.Layout) {
		err = errors.Errorf("unknown layout %q", d.Theme.Layout)
		return err
	}

	for i, s := range d.Social {
		if s.URL == "" {
			err = errors.Errorf("social link at index %d missing url", i)
			return err
		}
	}

	for i, e := range d.Experience {
		if e.Company == "" {
			err = errors.Errorf("experience at index %d missing company", i)
			return err
		}
		if e.Role == "" {
			err = errors.Errorf("experience at index %d missing role", i)
			return err
		}
	}

	for i, e := range d.Education {
		if e.Institution == "" {
			err = errors.Errorf("education at index %d missing institution", i)
			return err
		}
	}

	for i, p := range d.Projects {
		if p.Name == "" {
			err = errors.Errorf("project at index %d missing name", i)
			return err
		}
	}

	for i, l := range d.Languages {
		if l.Name == "" {
			err = errors.Errorf("language at index %d missing name", i)
			return err
		}
	}

	return err
}

// Normalize replaces null lists with empty ones and defaults the layout.
func (d *Data) Normalize() {
	if d.Social == nil {
		d.Social = []SocialLink{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Theme.Layout == "" {
		d.Theme.Layout = LayoutClassic
	}
}
