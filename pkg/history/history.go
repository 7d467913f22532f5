// Package history provides a generic linear undo/redo buffer over document snapshots.
//
// A History owns an ordered list of snapshots and a cursor into it. Values are
// stored as pointers and treated as immutable: callers produce a new value when
// something changes and hand back the same pointer when nothing did. Setting
// the pointer that is already current is a no-op, so immutable-update style
// edits never create empty undo steps.
//
//	h := history.New(doc)
//	h.Update(func(prev *Doc) *Doc { next := prev.Clone(); next.Title = "x"; return next })
//	h.Undo()
//	h.Redo()
//
// Appending after an undo discards the redo tail, as in any editor.
//
// Snapshots must never be mutated in place once handed to the store. A
// mutated snapshot aliases its history entry, and passing it back to Set is
// indistinguishable from a no-op.
package history

import (
	"sync"
)

// State is a consistent read of a History taken under its lock.
type State[T any] struct {
	Current *T
	CanUndo bool
	CanRedo bool
	Index   int
	Len     int
}

// History is an undo/redo-capable container for a document value.
type History[T any] struct {
	mu sync.Mutex

	entries []*T
	index   int

	// Configuration
	maxEntries int

	// Grouping state
	grouping    bool
	groupDirty  bool
	groupIndex  int
	groupBefore []*T

	listeners map[int]func(State[T])
	nextID    int
}

// Option configures a History.
type Option func(*options)

type options struct {
	maxEntries int
}

// WithMaxEntries caps the number of retained snapshots. Zero or less means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// New creates a history seeded with the initial snapshot.
func New[T any](initial *T, opts ...Option) *History[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxEntries < 0 {
		o.maxEntries = 0
	}

	return &History[T]{
		entries:    []*T{initial},
		maxEntries: o.maxEntries,
		listeners:  make(map[int]func(State[T])),
	}
}

// Current returns the snapshot at the cursor.
func (h *History[T]) Current() *T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Set appends next as a new undo step unless it is already current.
func (h *History[T]) Set(next *T) {
	h.Update(func(*T) *T { return next })
}

// Update resolves the next snapshot from the current one and appends it.
// fn runs under the store's lock and must not call back into the History.
// A panic in fn leaves the History unchanged and unlocked.
func (h *History[T]) Update(fn func(prev *T) *T) {
	if fn == nil {
		return
	}

	state, listeners, changed := h.updateLocked(fn)
	if changed {
		notify(listeners, state)
	}
}

func (h *History[T]) updateLocked(fn func(prev *T) *T) (state State[T], listeners []func(State[T]), changed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.entries[h.index]
	next := fn(prev)
	if next == prev {
		return state, listeners, false
	}

	h.appendLocked(next)
	return h.stateLocked(), h.listenersLocked(), true
}

// appendLocked drops the redo tail and pushes next.
func (h *History[T]) appendLocked(next *T) {
	if h.grouping && h.groupDirty && h.index == len(h.entries)-1 {
		if next == h.groupBefore[h.groupIndex] {
			// Back to where the group started: the group has no step.
			h.entries = append([]*T(nil), h.groupBefore...)
			h.index = h.groupIndex
			h.groupDirty = false
			return
		}
		// Later edits in a group overwrite the group's single step.
		h.entries[h.index] = next
		return
	}

	clear(h.entries[h.index+1:])
	h.entries = append(h.entries[:h.index+1], next)
	h.index = len(h.entries) - 1
	if h.grouping {
		h.groupDirty = true
	}

	h.trimLocked()
}

// trimLocked enforces maxEntries by dropping the oldest snapshots.
// Open groups are trimmed when they end so a cancel can restore them exactly.
func (h *History[T]) trimLocked() {
	if h.grouping || h.maxEntries <= 0 || len(h.entries) <= h.maxEntries {
		return
	}

	excess := len(h.entries) - h.maxEntries
	h.entries = append([]*T(nil), h.entries[excess:]...)
	h.index -= excess
}

// Undo moves the cursor back one step. It reports whether the cursor moved.
func (h *History[T]) Undo() bool {
	return h.move(-1)
}

// Redo moves the cursor forward one step. It reports whether the cursor moved.
func (h *History[T]) Redo() bool {
	return h.move(1)
}

func (h *History[T]) move(delta int) bool {
	state, listeners, moved := h.moveLocked(delta)
	if moved {
		notify(listeners, state)
	}
	return moved
}

func (h *History[T]) moveLocked(delta int) (state State[T], listeners []func(State[T]), moved bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	target := h.index + delta
	if target < 0 || target >= len(h.entries) {
		return state, listeners, false
	}

	h.index = target
	if h.grouping {
		// Navigating ends the collapse window; the next edit starts a new step.
		h.groupDirty = false
	}
	return h.stateLocked(), h.listenersLocked(), true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History[T]) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanRedo reports whether a later snapshot exists.
func (h *History[T]) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index returns the cursor position.
func (h *History[T]) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// State returns the current snapshot and navigation flags in one read.
func (h *History[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

func (h *History[T]) stateLocked() State[T] {
	return State[T]{
		Current: h.entries[h.index],
		CanUndo: h.index > 0,
		CanRedo: h.index < len(h.entries)-1,
		Index:   h.index,
		Len:     len(h.entries),
	}
}

// Entries returns a copy of the retained snapshots, oldest first.
func (h *History[T]) Entries() []*T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*T(nil), h.entries...)
}
