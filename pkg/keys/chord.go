package keys

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Chord is a single key press with its modifiers.
// Key is a lowercase letter/symbol or a lowercase key name such as "enter".
type Chord struct {
	Mods Modifier
	Key  string
}

// NewChord builds a chord from a key event as reported by a host
// (browser KeyboardEvent.key, terminal input). Letter case is ignored;
// Shift is taken from mods only.
func NewChord(key string, mods Modifier) Chord {
	return Chord{Mods: mods, Key: normalizeKey(key)}
}

// String renders the chord as "Ctrl+Shift+Z".
func (c Chord) String() string {
	k := c.Key
	if len([]rune(k)) == 1 {
		k = strings.ToUpper(k)
	} else if k != "" {
		k = strings.ToUpper(k[:1]) + k[1:]
	}
	if c.Mods == ModNone {
		return k
	}
	return c.Mods.String() + "+" + k
}

// Parse parses a key specification into a Chord.
//
// Supported formats:
//   - Single key: "z", "Z" (a bare uppercase letter implies Shift), "Enter"
//   - With modifiers: "Ctrl+Z", "Cmd+Shift+Z", "ctrl-y"
//   - Vim-style: "<C-z>", "<D-S-z>"
func Parse(spec string) (chord Chord, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		err = ErrEmptySpec
		return chord, err
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		chord, err = parseParts(strings.Split(spec[1:len(spec)-1], "-"), spec)
		return chord, err
	}

	switch {
	case strings.Contains(spec, "+") && len(spec) > 1:
		chord, err = parseParts(splitKeepTrailing(spec, "+"), spec)
	case strings.Contains(spec, "-") && len(spec) > 1:
		chord, err = parseParts(splitKeepTrailing(spec, "-"), spec)
	default:
		chord, err = parseParts([]string{spec}, spec)
	}
	return chord, err
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	chord, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return chord
}

// splitKeepTrailing splits on sep but lets the separator itself be the key,
// so "Ctrl++" parses as Ctrl and "+".
func splitKeepTrailing(spec, sep string) []string {
	if strings.HasSuffix(spec, sep+sep) {
		parts := strings.Split(strings.TrimSuffix(spec, sep+sep), sep)
		return append(parts, sep)
	}
	return strings.Split(spec, sep)
}

func parseParts(parts []string, spec string) (chord Chord, err error) {
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		err = errors.Wrapf(ErrInvalidSpec, "missing key in %q", spec)
		return chord, err
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			err = errors.Wrapf(ErrInvalidSpec, "unknown modifier %q in %q", p, spec)
			return chord, err
		}
		mods = mods.With(mod)
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		// A bare uppercase letter has implicit Shift; "Ctrl+Z" does not.
		if len(parts) == 1 && unicode.IsUpper(runes[0]) {
			mods = mods.With(ModShift)
		}
		chord = Chord{Mods: mods, Key: normalizeKey(keyPart)}
		return chord, err
	}

	name := strings.ToLower(keyPart)
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	if !knownKeys[name] {
		err = errors.Wrapf(ErrInvalidSpec, "unknown key %q in %q", keyPart, spec)
		return chord, err
	}

	chord = Chord{Mods: mods, Key: name}
	return chord, err
}

func normalizeKey(key string) string {
	if alias, ok := keyAliases[strings.ToLower(key)]; ok {
		return alias
	}
	return strings.ToLower(key)
}

//nolint:gochecknoglobals // Lookup table
var keyAliases = map[string]string{
	"cr":     "enter",
	"return": "enter",
	"esc":    "escape",
	"bs":     "backspace",
	"del":    "delete",
	"space":  " ",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

//nolint:gochecknoglobals // Lookup table
var knownKeys = map[string]bool{
	"enter": true, "escape": true, "tab": true, "backspace": true, "delete": true,
	"insert": true, "up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pageup": true, "pagedown": true, " ": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}
