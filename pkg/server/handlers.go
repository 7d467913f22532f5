package server

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/resume-studio/pkg/editor"
	"github.com/nikogura/resume-studio/pkg/keys"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/nikogura/resume-studio/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StateView is a session's document with its undo flags.
type StateView struct {
	ID       string       `json:"id"`
	Document *resume.Data `json:"document"`
	CanUndo  bool         `json:"can_undo"`
	CanRedo  bool         `json:"can_redo"`
	Index    int          `json:"index"`
	Len      int          `json:"len"`
}

// NavigationView answers undo, redo and key requests.
type NavigationView struct {
	// Moved is set by undo and redo.
	Moved bool `json:"moved"`
	// Handled is set by key requests. A handled chord should not reach the host's default action.
	Handled bool      `json:"handled"`
	State   StateView `json:"state"`
}

// GenerateView answers generate requests.
type GenerateView struct {
	Fixes []string  `json:"fixes,omitempty"`
	State StateView `json:"state"`
}

// ScoreView answers score requests.
type ScoreView struct {
	Local       scorer.Report     `json:"local"`
	Suggestions []string          `json:"suggestions"`
	AI          *llm.ScoreResponse `json:"ai,omitempty"`
}

// CreateRequest opens a session from a document or a bare name.
type CreateRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// FieldRequest sets one field.
type FieldRequest struct {
	Path  string          `json:"path" binding:"required"`
	Value json.RawMessage `json:"value"`
}

// MoveRequest reorders a list section.
type MoveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// KeyRequest is a key event. Chord, e.g. "Ctrl+Shift+Z", takes precedence
// over Key with its modifier flags.
type KeyRequest struct {
	Chord string `json:"chord"`
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Meta  bool   `json:"meta"`
}

// GenerateRequest asks the generator for a replacement document. Without
// raw_text the current document's text is regenerated.
type GenerateRequest struct {
	llm.GenerateRequest
	Polish bool `json:"polish"`
}

// ScoreRequest optionally scores against a job description.
type ScoreRequest struct {
	JobDescription string `json:"job_description"`
}

func view(session *editor.Session) (v StateView) {
	state := session.State()
	v = StateView{
		ID:       session.ID(),
		Document: state.Current,
		CanUndo:  state.CanUndo,
		CanRedo:  state.CanRedo,
		Index:    state.Index,
		Len:      state.Len,
	}
	return v
}

// bind decodes an optional JSON body. An empty body leaves dst untouched.
func bind(c *gin.Context, dst interface{}) (err error) {
	err = c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = nil
		return err
	}
	if err != nil {
		err = errors.Wrapf(ErrBadRequest, "invalid body: %v", err)
	}
	return err
}

func (s *Server) session(c *gin.Context) (session *editor.Session, found bool) {
	var err error
	session, err = s.registry.Get(c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return session, false
	}
	return session, true
}

func (s *Server) listSessions(c *gin.Context) {
	ok(c, http.StatusOK, "", gin.H{"ids": s.registry.IDs()})
}

func (s *Server) createSession(c *gin.Context) {
	var req CreateRequest
	err := bind(c, &req)
	if err != nil {
		failFrom(c, err)
		return
	}

	doc := resume.New(req.Name)
	if len(req.Document) > 0 && string(req.Document) != "null" {
		doc, err = resume.Decode(req.Document)
		if err != nil {
			failFrom(c, errors.Wrapf(ErrBadRequest, "%v", err))
			return
		}
	}

	var session *editor.Session
	session, err = s.registry.Open(doc)
	if err != nil {
		failFrom(c, err)
		return
	}

	s.logger.WithFields(logrus.Fields{"session": session.ID(), "rid": c.GetString(requestIDKey)}).Info("session created")
	ok(c, http.StatusCreated, "", view(session))
}

func (s *Server) getSession(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}
	ok(c, http.StatusOK, "", view(session))
}

func (s *Server) deleteSession(c *gin.Context) {
	err := s.registry.Close(c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, "session closed", nil)
}

func (s *Server) setField(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	var req FieldRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		failFrom(c, errors.Wrapf(ErrBadRequest, "invalid body: %v", err))
		return
	}
	if len(req.Value) == 0 {
		failFrom(c, errors.Wrapf(editor.ErrInvalidValue, "%s: missing value", req.Path))
		return
	}

	err = session.SetFieldRaw(req.Path, string(req.Value))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, "", view(session))
}

func (s *Server) addEntry(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		failFrom(c, errors.Wrapf(ErrBadRequest, "failed to read body: %v", err))
		return
	}

	err = session.AddEntry(c.Param("section"), strings.TrimSpace(string(raw)))
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusCreated, "", view(session))
}

func (s *Server) removeEntry(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		failFrom(c, errors.Wrapf(ErrBadRequest, "index %q is not a number", c.Param("index")))
		return
	}

	err = session.RemoveEntry(c.Param("section"), index)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, "", view(session))
}

func (s *Server) moveEntry(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	var req MoveRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		failFrom(c, errors.Wrapf(ErrBadRequest, "invalid body: %v", err))
		return
	}

	err = session.MoveEntry(c.Param("section"), *req.From, *req.To)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, "", view(session))
}

func (s *Server) undo(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	moved := session.Undo()
	message := "undone"
	if !moved {
		message = "nothing to undo"
	}
	ok(c, http.StatusOK, message, NavigationView{Moved: moved, State: view(session)})
}

func (s *Server) redo(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	moved := session.Redo()
	message := "redone"
	if !moved {
		message = "nothing to redo"
	}
	ok(c, http.StatusOK, message, NavigationView{Moved: moved, State: view(session)})
}

func (s *Server) handleKey(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	var req KeyRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		failFrom(c, errors.Wrapf(ErrBadRequest, "invalid body: %v", err))
		return
	}

	var chord keys.Chord
	chord, err = req.chord()
	if err != nil {
		failFrom(c, err)
		return
	}

	handled := session.HandleKey(chord)
	ok(c, http.StatusOK, chord.String(), NavigationView{Handled: handled, State: view(session)})
}

func (r KeyRequest) chord() (chord keys.Chord, err error) {
	if r.Chord != "" {
		chord, err = keys.Parse(r.Chord)
		if err != nil {
			err = errors.Wrapf(ErrBadRequest, "%v", err)
		}
		return chord, err
	}

	if strings.TrimSpace(r.Key) == "" {
		err = errors.Wrap(ErrBadRequest, "key or chord is required")
		return chord, err
	}

	mods := keys.ModNone
	if r.Shift {
		mods = mods.With(keys.ModShift)
	}
	if r.Ctrl {
		mods = mods.With(keys.ModCtrl)
	}
	if r.Alt {
		mods = mods.With(keys.ModAlt)
	}
	if r.Meta {
		mods = mods.With(keys.ModMeta)
	}

	chord = keys.NewChord(r.Key, mods)
	return chord, err
}

func (s *Server) generate(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}
	if s.generator == nil {
		fail(c, http.StatusServiceUnavailable, errors.New("generation is not configured"))
		return
	}

	var req GenerateRequest
	err := bind(c, &req)
	if err != nil {
		failFrom(c, err)
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		req.RawText = session.Document().PlainText()
	}

	var doc *resume.Data
	doc, err = s.generator.GenerateResume(c.Request.Context(), req.GenerateRequest)
	if err != nil {
		s.logger.WithError(err).WithField("session", session.ID()).Warn("generation failed")
		failFrom(c, errors.Wrapf(ErrUpstream, "generation failed: %v", err))
		return
	}

	var fixes []string
	if req.Polish {
		doc, fixes = s.fixer.Apply(doc)
	}

	err = session.Replace(doc)
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, "document generated", GenerateView{Fixes: fixes, State: view(session)})
}

func (s *Server) score(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	var req ScoreRequest
	err := bind(c, &req)
	if err != nil {
		failFrom(c, err)
		return
	}

	text := session.Document().PlainText()
	report := s.local.Check(text)
	result := ScoreView{
		Local:       report,
		Suggestions: s.local.Suggestions(report),
	}

	if s.aiScorer != nil {
		var ai llm.ScoreResponse
		ai, err = s.aiScorer.Score(c.Request.Context(), text, req.JobDescription)
		if err != nil {
			failFrom(c, errors.Wrapf(ErrUpstream, "scoring failed: %v", err))
			return
		}
		result.AI = &ai
	}

	ok(c, http.StatusOK, "", result)
}

func (s *Server) markdown(c *gin.Context) {
	session, found := s.session(c)
	if !found {
		return
	}

	layout := c.Query("layout")
	if layout != "" && !slices.Contains(resume.Layouts(), layout) {
		failFrom(c, errors.Wrapf(ErrBadRequest, "unknown layout %q", layout))
		return
	}

	content, err := renderer.RenderMarkdown(session.Document(), layout)
	if err != nil {
		failFrom(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}
