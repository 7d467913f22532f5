package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editing API over HTTP",
	Long: `Start the HTTP API used by browser editors. Each session is an independent
document with its own undo history; sessions live in memory until closed or
until the server stops.

Generation and AI scoring are enabled when an Anthropic API key is configured.

Example:
  resume-studio serve
  resume-studio serve --addr 0.0.0.0:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultServerAddr+")")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = loadConfig(false)
	if err != nil {
		return err
	}

	if !getVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.StandardLogger()
	opts := server.Options{
		Registry:       server.NewRegistry(cfg.History.MaxEntries, logger),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	}

	var client *llm.Client
	client, err = newClient(cfg)
	if err != nil {
		logger.WithError(err).Warn("generation and AI scoring disabled")
		err = nil
	} else {
		opts.Generator = client
		opts.AIScorer = client
	}

	var srv *server.Server
	srv, err = server.New(opts)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = srv.Run(ctx, addr)
	return err
}
