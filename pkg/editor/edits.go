package editor

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SetField writes value at a dot path such as "personal.name" or
// "experience.0.highlights.1". Writing the value already present is a no-op.
func (s *Session) SetField(path string, value interface{}) (err error) {
	var raw []byte
	raw, err = json.Marshal(value)
	if err != nil {
		err = errors.Wrapf(ErrInvalidValue, "%s: %v", path, err)
		return err
	}

	err = s.SetFieldRaw(path, string(raw))
	return err
}

// SetFieldRaw is SetField for a value already encoded as JSON.
func (s *Session) SetFieldRaw(path, raw string) (err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		err = errors.Wrap(ErrUnknownField, "empty path")
		return err
	}
	if !gjson.Valid(raw) {
		err = errors.Wrapf(ErrInvalidValue, "%s: not valid JSON: %s", path, raw)
		return err
	}

	s.history.Update(func(prev *resume.Data) *resume.Data {
		var next *resume.Data
		next, err = setField(prev, path, raw)
		if err != nil {
			return prev
		}
		return next
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"path": path}).Debug("field set")
	return err
}

// AddEntry appends an entry to a list section. raw is the entry as JSON,
// an object for most sections and a string for skills.
func (s *Session) AddEntry(section, raw string) (err error) {
	if !gjson.Valid(raw) {
		err = errors.Wrapf(ErrInvalidValue, "%s entry: not valid JSON", section)
		return err
	}

	s.history.Update(func(prev *resume.Data) *resume.Data {
		_, ok := prev.SectionLen(section)
		if !ok {
			err = errors.Wrapf(ErrUnknownSection, "%s", section)
			return prev
		}

		var next *resume.Data
		next, err = rewrite(prev, func(data []byte) ([]byte, error) {
			return sjson.SetRawBytes(data, section+".-1", []byte(raw))
		})
		if err != nil {
			return prev
		}
		return next
	})
	if err != nil {
		return err
	}

	s.logger.WithField("section", section).Debug("entry added")
	return err
}

// RemoveEntry deletes the entry at index from a list section.
func (s *Session) RemoveEntry(section string, index int) (err error) {
	s.history.Update(func(prev *resume.Data) *resume.Data {
		err = checkIndex(prev, section, index)
		if err != nil {
			return prev
		}

		var next *resume.Data
		next, err = rewrite(prev, func(data []byte) ([]byte, error) {
			return sjson.DeleteBytes(data, section+"."+strconv.Itoa(index))
		})
		if err != nil {
			return prev
		}
		return next
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"section": section, "index": index}).Debug("entry removed")
	return err
}

// MoveEntry moves the entry at from so that it ends up at to, shifting the
// entries in between. Moving an entry onto itself is a no-op.
func (s *Session) MoveEntry(section string, from, to int) (err error) {
	s.history.Update(func(prev *resume.Data) *resume.Data {
		err = checkIndex(prev, section, from)
		if err != nil {
			return prev
		}
		err = checkIndex(prev, section, to)
		if err != nil {
			return prev
		}
		if from == to {
			return prev
		}

		var next *resume.Data
		next, err = rewrite(prev, func(data []byte) ([]byte, error) {
			items := gjson.GetBytes(data, section).Array()
			raws := make([]string, len(items))
			for i, item := range items {
				raws[i] = item.Raw
			}
			raws = move(raws, from, to)
			return sjson.SetRawBytes(data, section, []byte("["+strings.Join(raws, ",")+"]"))
		})
		if err != nil {
			return prev
		}
		return next
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"section": section, "from": from, "to": to}).Debug("entry moved")
	return err
}

// setField returns prev itself when raw decodes to the value already at path.
func setField(prev *resume.Data, path, raw string) (next *resume.Data, err error) {
	var data []byte
	data, err = json.Marshal(prev)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal document")
		return next, err
	}

	current := gjson.GetBytes(data, path)
	if !current.Exists() {
		err = errors.Wrapf(ErrUnknownField, "%s", path)
		return next, err
	}
	if reflect.DeepEqual(current.Value(), gjson.Parse(raw).Value()) {
		next = prev
		return next, err
	}

	next, err = rewrite(prev, func(data []byte) ([]byte, error) {
		return sjson.SetRawBytes(data, path, []byte(raw))
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to set %s", path)
	}
	return next, err
}

// rewrite round-trips prev through JSON, applying edit in between. The
// result shares nothing with prev.
func rewrite(prev *resume.Data, edit func([]byte) ([]byte, error)) (next *resume.Data, err error) {
	var data []byte
	data, err = json.Marshal(prev)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal document")
		return next, err
	}

	data, err = edit(data)
	if err != nil {
		err = errors.Wrap(err, "failed to edit document")
		return next, err
	}

	next = &resume.Data{}
	err = json.Unmarshal(data, next)
	if err != nil {
		err = errors.Wrapf(ErrInvalidValue, "%v", err)
		next = nil
		return next, err
	}

	return next, err
}

func checkIndex(doc *resume.Data, section string, index int) (err error) {
	n, ok := doc.SectionLen(section)
	if !ok {
		err = errors.Wrapf(ErrUnknownSection, "%s", section)
		return err
	}
	if index < 0 || index >= n {
		err = errors.Wrapf(ErrIndexRange, "%s[%d] (len %d)", section, index, n)
		return err
	}
	return err
}

// move relocates s[from] to position to.
func move[E any](s []E, from, to int) []E {
	item := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s[:to], append([]E{item}, s[to:]...)...)
	return s
}
