package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
)

func sanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(name)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		sanitized = "resume"
	}
	return sanitized
}

// defaultOutput names a file for doc in the configured output directory.
func defaultOutput(cfg config.Config, dir, name, suffix string) (path string) {
	if dir == "" {
		dir = cfg.Defaults.OutputDir
	}
	path = filepath.Join(dir, sanitizeFilename(name)+suffix)
	return path
}

// replaceExt swaps the extension of path.
func replaceExt(path, ext string) (out string) {
	out = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	return out
}

// readSource returns the text behind path: the text projection for a JSON
// resume, the file contents for anything else.
func readSource(path string) (text string, err error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc *resume.Data
		doc, err = resume.Load(path)
		if err != nil {
			return text, err
		}
		text = doc.PlainText()
		return text, err
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return text, err
	}

	text = strings.TrimSpace(string(data))
	if text == "" {
		err = errors.Errorf("%s is empty", path)
		return text, err
	}
	return text, err
}

// writeOrPrint writes content to path, or to stdout when path is empty.
func writeOrPrint(content, path string) (err error) {
	if path == "" {
		_, err = os.Stdout.WriteString(strings.TrimRight(content, "\n") + "\n")
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create directory for %s", path)
		return err
	}

	err = os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s", path)
	}
	return err
}
