// Package editor hosts an editable resume whose every change is one undo step.
//
// A Session owns a history.History over resume.Data. Field edits, list edits,
// drag-and-drop moves and whole-document replacements from the generator all
// go through the history, so Ctrl+Z reverts exactly one of them.
package editor

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nikogura/resume-studio/pkg/history"
	"github.com/nikogura/resume-studio/pkg/keys"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Session errors.
var (
	ErrNoDocument     = errors.New("no document")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownSection = errors.New("unknown section")
	ErrIndexRange     = errors.New("index out of range")
	ErrInvalidValue   = errors.New("invalid value")
)

// State is a consistent read of a session's document and undo flags.
type State = history.State[resume.Data]

// Session is one independently-undoable editing session.
type Session struct {
	id         string
	history    *history.History[resume.Data]
	dispatcher *keys.Dispatcher
	detach     func()
	logger     *logrus.Entry
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	id         string
	maxEntries int
	keymap     *keys.Keymap
	logger     *logrus.Logger
}

// WithID sets the session ID. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(o *sessionOptions) {
		o.id = id
	}
}

// WithMaxEntries caps the undo history.
func WithMaxEntries(n int) Option {
	return func(o *sessionOptions) {
		o.maxEntries = n
	}
}

// WithKeymap replaces the default undo/redo bindings.
func WithKeymap(km *keys.Keymap) Option {
	return func(o *sessionOptions) {
		o.keymap = km
	}
}

// WithLogger sets the logger. logrus.StandardLogger is used otherwise.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// NewSession starts editing doc. The document is normalized in place, becomes
// the first snapshot and must not be mutated by the caller afterwards.
func NewSession(doc *resume.Data, opts ...Option) (session *Session, err error) {
	if doc == nil {
		err = ErrNoDocument
		return session, err
	}

	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	doc.Normalize()

	session = &Session{
		id:         o.id,
		history:    history.New(doc, history.WithMaxEntries(o.maxEntries)),
		dispatcher: keys.NewDispatcher(o.keymap),
		logger:     o.logger.WithField("session", o.id),
	}
	session.detach = session.dispatcher.Attach(session.runAction)

	session.logger.WithField("name", doc.Personal.Name).Debug("session opened")

	return session, err
}

// ID returns the session identifier.
func (s *Session) ID() (id string) {
	id = s.id
	return id
}

// Document returns the current snapshot. Treat it as read-only.
func (s *Session) Document() (doc *resume.Data) {
	doc = s.history.Current()
	return doc
}

// State returns the current snapshot with its undo/redo flags.
func (s *Session) State() (state State) {
	state = s.history.State()
	return state
}

// Subscribe registers fn for change notifications.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	unsubscribe = s.history.Subscribe(fn)
	return unsubscribe
}

// Undo reverts one step. It reports whether anything changed.
func (s *Session) Undo() (moved bool) {
	moved = s.history.Undo()
	s.logger.WithField("moved", moved).Debug("undo")
	return moved
}

// Redo reapplies one step. It reports whether anything changed.
func (s *Session) Redo() (moved bool) {
	moved = s.history.Redo()
	s.logger.WithField("moved", moved).Debug("redo")
	return moved
}

// Replace swaps in a whole new document as a single undo step.
func (s *Session) Replace(doc *resume.Data) (err error) {
	if doc == nil {
		err = ErrNoDocument
		return err
	}

	s.history.Set(doc)
	s.logger.Debug("document replaced")
	return err
}

// Batch runs fn so that all edits it makes become one undo step.
// If fn fails, its edits are rolled back.
func (s *Session) Batch(fn func() error) (err error) {
	err = s.history.Transaction(fn)
	return err
}

// HandleKey runs the action bound to chord. It reports whether the chord
// was consumed, in which case the host should suppress its default action.
func (s *Session) HandleKey(chord keys.Chord) (handled bool) {
	handled = s.dispatcher.Dispatch(chord)
	return handled
}

// Close detaches the session's key handler. Further key events are ignored.
func (s *Session) Close() {
	s.detach()
	s.logger.Debug("session closed")
}

func (s *Session) runAction(action keys.Action) {
	switch action {
	case keys.ActionUndo:
		s.Undo()
	case keys.ActionRedo:
		s.Redo()
	default:
		s.logger.WithField("action", action).Warn("unhandled key action")
	}
}

// Field reads the value at path from the current document.
func (s *Session) Field(path string) (value gjson.Result, err error) {
	var data []byte
	data, err = json.Marshal(s.history.Current())
	if err != nil {
		err = errors.Wrap(err, "failed to marshal document")
		return value, err
	}

	value = gjson.GetBytes(data, path)
	if !value.Exists() {
		err = errors.Wrapf(ErrUnknownField, "%s", path)
		return value, err
	}

	return value, err
}
