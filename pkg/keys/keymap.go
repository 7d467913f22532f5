package keys

import (
	"sync"

	"github.com/pkg/errors"
)

// Action names an editor command bound to a chord.
type Action string

// Editor actions.
const (
	ActionUndo Action = "undo"
	ActionRedo Action = "redo"
)

// Keymap maps chords to actions.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[Chord]Action
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Chord]Action)}
}

// DefaultEditorKeymap returns the undo/redo bindings users expect from
// every other editor, for both Ctrl and Cmd.
func DefaultEditorKeymap() *Keymap {
	km := NewKeymap()
	for _, mod := range []string{"Ctrl", "Cmd"} {
		km.MustBind(mod+"+z", ActionUndo)
		km.MustBind(mod+"+Shift+z", ActionRedo)
		km.MustBind(mod+"+y", ActionRedo)
	}
	return km
}

// Bind parses spec and maps it to action, replacing any existing binding.
func (k *Keymap) Bind(spec string, action Action) (err error) {
	var chord Chord
	chord, err = Parse(spec)
	if err != nil {
		err = errors.Wrapf(err, "failed to bind %s", action)
		return err
	}

	k.mu.Lock()
	k.bindings[chord] = action
	k.mu.Unlock()
	return err
}

// MustBind is Bind for known-valid specs; it panics on error.
func (k *Keymap) MustBind(spec string, action Action) {
	err := k.Bind(spec, action)
	if err != nil {
		panic(err.Error())
	}
}

// Unbind removes the binding for spec, if any.
func (k *Keymap) Unbind(spec string) (err error) {
	var chord Chord
	chord, err = Parse(spec)
	if err != nil {
		return err
	}

	k.mu.Lock()
	delete(k.bindings, chord)
	k.mu.Unlock()
	return err
}

// Lookup returns the action bound to chord.
func (k *Keymap) Lookup(chord Chord) (action Action, ok bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	action, ok = k.bindings[chord]
	return action, ok
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.bindings)
}
