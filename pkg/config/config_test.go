package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/resume"
)

func writeConfig(t *testing.T, cfg Config) (path string) {
	t.Helper()

	path = filepath.Join(t.TempDir(), "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	configPath := writeConfig(t, Config{
		Name:            "test-user",
		AnthropicAPIKey: "test-key",
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
			Layout:    resume.LayoutModern,
		},
		History: HistoryConfig{MaxEntries: 50},
	})

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != "test-key" {
		t.Errorf("Expected API key test-key, got %s", cfg.AnthropicAPIKey)
	}
	if cfg.Defaults.Layout != resume.LayoutModern {
		t.Errorf("Expected layout modern, got %s", cfg.Defaults.Layout)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("Expected 50 history entries, got %d", cfg.History.MaxEntries)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Expected default server addr, got %s", cfg.Server.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	configPath := writeConfig(t, Config{Name: "test-user", AnthropicAPIKey: "from-file"})

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AnthropicAPIKey != "from-env" {
		t.Errorf("Expected env override, got %s", cfg.AnthropicAPIKey)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte("{not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "minimal config",
			config:    Config{Name: "test-user"},
			wantError: false,
		},
		{
			name: "full config",
			config: Config{
				Name:            "test-user",
				AnthropicAPIKey: "test-key",
				Defaults:        DefaultConfig{OutputDir: "./output", Layout: resume.LayoutCompact},
				Server:          ServerConfig{Addr: ":9000"},
				History:         HistoryConfig{MaxEntries: 10},
			},
			wantError: false,
		},
		{
			name:      "missing name",
			config:    Config{AnthropicAPIKey: "test-key"},
			wantError: true,
		},
		{
			name:      "unknown layout",
			config:    Config{Name: "test-user", Defaults: DefaultConfig{Layout: "fancy"}},
			wantError: true,
		},
		{
			name:      "negative history",
			config:    Config{Name: "test-user", History: HistoryConfig{MaxEntries: -1}},
			wantError: true,
		},
		{
			name:      "nonexistent pandoc template",
			config:    Config{Name: "test-user", Pandoc: PandocConfig{TemplatePath: "/nonexistent/t.latex"}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Name: "test-user"}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Defaults.Layout != resume.LayoutClassic {
		t.Errorf("Expected classic layout, got %s", cfg.Defaults.Layout)
	}
	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Expected default addr, got %s", cfg.Server.Addr)
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Config{Name: "test-user"}
	if cfg.RequireAPIKey() == nil {
		t.Error("Expected error without API key")
	}

	cfg.AnthropicAPIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestModelDefaults(t *testing.T) {
	cfg := Config{}
	if cfg.GetGenerationModel() != llm.ClaudeModel {
		t.Errorf("Expected default generation model, got %s", cfg.GetGenerationModel())
	}
	if cfg.GetScoringModel() != llm.ScoringModel {
		t.Errorf("Expected default scoring model, got %s", cfg.GetScoringModel())
	}

	cfg.Models = ModelsConfig{Generation: "g", Scoring: "s"}
	if cfg.GetGenerationModel() != "g" || cfg.GetScoringModel() != "s" {
		t.Error("Expected configured models")
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}
	if cfg.Name == "" {
		t.Error("Default name was not set")
	}

	err = cfg.Validate()
	if err != nil {
		t.Errorf("Generated config should validate: %v", err)
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
