package keys

import "sync"

// Handler runs an action.
type Handler func(action Action)

// Dispatcher routes chords to the single handler attached for the
// lifetime of an editing surface.
//
// Attach registers the handler and returns its detach function. Attaching
// while another handler is attached replaces it, so a surface that is
// shown twice never ends up with duplicate handlers.
type Dispatcher struct {
	mu         sync.Mutex
	keymap     *Keymap
	handler    Handler
	generation uint64
}

// NewDispatcher creates a dispatcher over keymap. A nil keymap uses DefaultEditorKeymap.
func NewDispatcher(keymap *Keymap) *Dispatcher {
	if keymap == nil {
		keymap = DefaultEditorKeymap()
	}
	return &Dispatcher{keymap: keymap}
}

// Attach installs handler and returns a function that removes it.
// The detach function is safe to call more than once and never removes a
// handler attached after it.
func (d *Dispatcher) Attach(handler Handler) (detach func()) {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.handler = handler
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			if d.generation == gen {
				d.handler = nil
			}
			d.mu.Unlock()
		})
	}
}

// Attached reports whether a handler is installed.
func (d *Dispatcher) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handler != nil
}

// Dispatch looks chord up and runs the attached handler. It reports whether
// the chord was consumed; the host should suppress the platform default
// action when it was.
func (d *Dispatcher) Dispatch(chord Chord) (handled bool) {
	action, ok := d.keymap.Lookup(chord)
	if !ok {
		return false
	}

	d.mu.Lock()
	handler := d.handler
	d.mu.Unlock()

	if handler == nil {
		return false
	}

	// A bound chord is consumed even when the action is inert
	// (undo at the first step), matching a disabled menu item.
	handler(action)
	return true
}

// Keymap returns the dispatcher's keymap.
func (d *Dispatcher) Keymap() *Keymap {
	return d.keymap
}
