package cmd

import (
	"os"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-studio",
	Short: "Edit, generate, score and export resumes",
	Long: `resume-studio keeps a resume as a structured JSON document and edits it with
full undo/redo. Every field edit, list reorder or AI rewrite is a single step
that Ctrl+Z takes back.

Claude can generate a document from rough notes, score it against a job
description and draft a cover letter. Documents render to markdown and, with
pandoc installed, to PDF.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-studio/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	if getVerbose() {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// loadConfig reads the config file. When required is false a missing file
// yields built-in defaults, so editing works before 'init' has been run.
func loadConfig(required bool) (cfg config.Config, err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) && !required {
		logrus.WithField("path", path).Debug("no config file, using defaults")
		cfg = config.Config{
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Defaults: config.DefaultConfig{
				OutputDir: "./resumes",
				Layout:    resume.LayoutClassic,
			},
			Server: config.ServerConfig{Addr: config.DefaultServerAddr},
		}
		return cfg, err
	}

	cfg, err = config.Load(path)
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}

	return cfg, err
}

// newClient builds a Claude client from cfg.
func newClient(cfg config.Config) (client *llm.Client, err error) {
	err = cfg.RequireAPIKey()
	if err != nil {
		return client, err
	}

	client = llm.NewClient(cfg.AnthropicAPIKey, cfg.GetGenerationModel(),
		llm.WithScoringModel(cfg.GetScoringModel()),
		llm.WithLogger(logrus.StandardLogger()),
	)
	return client, err
}
