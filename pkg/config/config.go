// Package config loads resume-studio settings from ~/.resume-studio/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/pkg/errors"
)

const (
	// DirName is the per-user config directory under $HOME.
	DirName = ".resume-studio"
	// FileName is the config file inside DirName.
	FileName = "config.json"
	// DefaultServerAddr is where serve listens when unset.
	DefaultServerAddr = "127.0.0.1:8080"
)

// Config represents the application configuration.
type Config struct {
	Name            string        `json:"name"`
	AnthropicAPIKey string        `json:"anthropic_api_key"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Pandoc          PandocConfig  `json:"pandoc"`
	Defaults        DefaultConfig `json:"defaults"`
	Server          ServerConfig  `json:"server"`
	History         HistoryConfig `json:"history"`
}

// ModelsConfig holds model selection for generation and scoring.
type ModelsConfig struct {
	Generation string `json:"generation,omitempty"`
	Scoring    string `json:"scoring,omitempty"`
}

// PandocConfig holds pandoc-related configuration. Both paths are optional.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty"`
	ClassFile    string `json:"class_file,omitempty"`
	Engine       string `json:"engine,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
	Layout    string `json:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// HistoryConfig bounds the undo history of every editing session.
type HistoryConfig struct {
	// MaxEntries of zero keeps every step.
	MaxEntries int `json:"max_entries"`
}

// GetGenerationModel returns the generation model or default if not specified.
func (c *Config) GetGenerationModel() (model string) {
	if c.Models.Generation != "" {
		model = c.Models.Generation
		return model
	}
	model = llm.ClaudeModel
	return model
}

// GetScoringModel returns the scoring model or default if not specified.
func (c *Config) GetScoringModel() (model string) {
	if c.Models.Scoring != "" {
		model = c.Models.Scoring
		return model
	}
	model = llm.ScoringModel
	return model
}

// DefaultPath returns ~/.resume-studio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, DirName, FileName)
	return path, err
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'resume-studio init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	// Environment wins over the file
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks the configuration and fills in defaults. The API key is
// checked separately by RequireAPIKey since editing works without it.
func (c *Config) Validate() (err error) {
	if c.Name == "" {
		err = errors.New("name is required in config")
		return err
	}

	if c.Defaults.Layout == "" {
		c.Defaults.Layout = resume.LayoutClassic
	}
	if !slices.Contains(resume.Layouts(), c.Defaults.Layout) {
		err = errors.Errorf("defaults.layout %q is not one of %v", c.Defaults.Layout, resume.Layouts())
		return err
	}

	if c.History.MaxEntries < 0 {
		err = errors.New("history.max_entries must not be negative")
		return err
	}

	if c.Pandoc.TemplatePath != "" {
		_, err = os.Stat(c.Pandoc.TemplatePath)
		if os.IsNotExist(err) {
			err = errors.Errorf("pandoc template not found: %s", c.Pandoc.TemplatePath)
			return err
		}
		err = nil
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./resumes"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	return err
}

// RequireAPIKey fails when no Anthropic key is configured.
func (c *Config) RequireAPIKey() (err error) {
	if c.AnthropicAPIKey == "" {
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}
	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Name:            "your-name",
		AnthropicAPIKey: "",
		Models: ModelsConfig{
			Generation: llm.ClaudeModel,
			Scoring:    llm.ScoringModel,
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Resumes"),
			Layout:    resume.LayoutClassic,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		History: HistoryConfig{
			MaxEntries: 500,
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
