package server

import (
	"sort"
	"sync"

	"github.com/nikogura/resume-studio/pkg/editor"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Server errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBadRequest      = errors.New("bad request")
	ErrUpstream        = errors.New("upstream failure")
)

// Registry holds the open editing sessions. Each session has its own history.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*editor.Session
	maxEntries int
	logger     *logrus.Logger
}

// NewRegistry creates an empty registry. maxEntries caps each session's
// history; zero means unbounded.
func NewRegistry(maxEntries int, logger *logrus.Logger) (registry *Registry) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	registry = &Registry{
		sessions:   make(map[string]*editor.Session),
		maxEntries: maxEntries,
		logger:     logger,
	}
	return registry
}

// Open starts a session on doc.
func (r *Registry) Open(doc *resume.Data) (session *editor.Session, err error) {
	session, err = editor.NewSession(doc,
		editor.WithMaxEntries(r.maxEntries),
		editor.WithLogger(r.logger),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to open session")
		return session, err
	}

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	return session, err
}

// Get returns the session with id.
func (r *Registry) Get(id string) (session *editor.Session, err error) {
	r.mu.RLock()
	session, found := r.sessions[id]
	r.mu.RUnlock()

	if !found {
		err = errors.Wrapf(ErrSessionNotFound, "%s", id)
		return session, err
	}
	return session, err
}

// Close closes and forgets the session with id.
func (r *Registry) Close(id string) (err error) {
	r.mu.Lock()
	session, found := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !found {
		err = errors.Wrapf(ErrSessionNotFound, "%s", id)
		return err
	}

	session.Close()
	return err
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*editor.Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// IDs lists open session IDs in sorted order.
func (r *Registry) IDs() (ids []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids = make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
