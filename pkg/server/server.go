// Package server exposes editing sessions over HTTP.
//
// Every session is an independent undo history. Routes:
//
//	POST   /sessions                                open a session
//	GET    /sessions/:id                            document and undo flags
//	PATCH  /sessions/:id/fields                     {path, value}
//	POST   /sessions/:id/entries/:section           append an entry
//	DELETE /sessions/:id/entries/:section/:index    remove an entry
//	POST   /sessions/:id/entries/:section/move      {from, to}
//	POST   /sessions/:id/undo, /redo, /keys         history navigation
//	POST   /sessions/:id/generate                   replace via the generator
//	POST   /sessions/:id/score                      local and AI score
//	GET    /sessions/:id/markdown                   rendered markdown
//	DELETE /sessions/:id                            close
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/nikogura/resume-studio/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Generator produces a whole replacement document.
type Generator interface {
	GenerateResume(ctx context.Context, req llm.GenerateRequest) (*resume.Data, error)
}

// AIScorer rates a resume's text projection.
type AIScorer interface {
	Score(ctx context.Context, text, jd string) (llm.ScoreResponse, error)
}

// Options configures a Server.
type Options struct {
	// Registry holds the sessions. A fresh unbounded one is used if nil.
	Registry *Registry
	// Generator backs /generate. The route answers 503 without one.
	Generator Generator
	// AIScorer adds an AI opinion to /score. Only the local check runs without one.
	AIScorer AIScorer
	// AllowedOrigins enables CORS for browser editors. "*" allows any origin.
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// Server is the HTTP front end for editing sessions.
type Server struct {
	engine    *gin.Engine
	registry  *Registry
	generator Generator
	aiScorer  AIScorer
	local     *scorer.Scorer
	fixer     *llm.Fixer
	logger    *logrus.Logger
}

// New builds the router.
func New(opts Options) (srv *Server, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(0, logger)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog(logger))

	if len(opts.AllowedOrigins) > 0 {
		corsConfig := cors.Config{
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Content-Type", RequestIDHeader},
			ExposeHeaders: []string{RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}
		if len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*" {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = opts.AllowedOrigins
		}

		err = corsConfig.Validate()
		if err != nil {
			err = errors.Wrap(err, "invalid CORS configuration")
			return srv, err
		}
		engine.Use(cors.New(corsConfig))
	}

	srv = &Server{
		engine:    engine,
		registry:  registry,
		generator: opts.Generator,
		aiScorer:  opts.AIScorer,
		local:     scorer.NewScorer(),
		fixer:     llm.NewFixer(),
		logger:    logger,
	}
	srv.routes()

	return srv, err
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		ok(c, http.StatusOK, "", nil)
	})

	sessions := s.engine.Group("/sessions")
	sessions.GET("", s.listSessions)
	sessions.POST("", s.createSession)
	sessions.GET("/:id", s.getSession)
	sessions.DELETE("/:id", s.deleteSession)
	sessions.PATCH("/:id/fields", s.setField)
	sessions.POST("/:id/entries/:section", s.addEntry)
	sessions.POST("/:id/entries/:section/move", s.moveEntry)
	sessions.DELETE("/:id/entries/:section/:index", s.removeEntry)
	sessions.POST("/:id/undo", s.undo)
	sessions.POST("/:id/redo", s.redo)
	sessions.POST("/:id/keys", s.handleKey)
	sessions.POST("/:id/generate", s.generate)
	sessions.POST("/:id/score", s.score)
	sessions.GET("/:id/markdown", s.markdown)
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() (handler http.Handler) {
	handler = s.engine
	return handler
}

// Registry returns the session registry.
func (s *Server) Registry() (registry *Registry) {
	registry = s.registry
	return registry
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and closes every session.
func (s *Server) Run(ctx context.Context, addr string) (err error) {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.registry.CloseAll()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.WithField("addr", addr).Info("server listening")

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
			return err
		}
		err = errors.Wrapf(err, "failed to serve on %s", addr)
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		s.logger.Info("server shutting down")
		err = httpServer.Shutdown(shutdownCtx)
		if err != nil {
			err = errors.Wrap(err, "failed to shut down server")
		}
		return err
	}
}
