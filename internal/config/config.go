package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDirName is the per-workspace hidden directory holding threads,
// memory, backups, config and logs.
const DataDirName = ".scribe"

// Config holds all runtime settings. It is reloaded at the start of every
// agent round so edits to the config file apply without a restart.
type Config struct {
	// APIURL is the chat-completions endpoint of the local LLM server.
	APIURL string `yaml:"api_url"`
	// Model is the model name sent with every request.
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// TimeoutSeconds bounds a single LLM request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// CommandTimeoutSeconds bounds a single run_command execution.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds"`

	// AutoSave persists the active thread after each completed turn.
	AutoSave bool `yaml:"auto_save"`
	// SystemPromptAddition is appended to the built-in system prompt.
	SystemPromptAddition string `yaml:"system_prompt_addition"`
	// ShowToolCalls echoes each tool invocation to the presentation layer.
	ShowToolCalls bool `yaml:"show_tool_calls"`
	// ConfirmBeforeWrite requires explicit approval before file writes.
	ConfirmBeforeWrite bool `yaml:"confirm_before_write"`
	// BackupBeforeWrite copies the prior content into the backup directory
	// before any destructive write.
	BackupBeforeWrite bool `yaml:"backup_before_write"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	ToFile bool   `yaml:"to_file"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		APIURL:                "http://localhost:11434/v1/chat/completions",
		Model:                 "qwen2.5-coder",
		Temperature:           0.7,
		MaxTokens:             4096,
		TimeoutSeconds:        120,
		CommandTimeoutSeconds: 30,
		AutoSave:              true,
		ShowToolCalls:         true,
		ConfirmBeforeWrite:    false,
		BackupBeforeWrite:     true,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the config file path for a workspace.
func Path(workDir string) string {
	return filepath.Join(workDir, DataDirName, "config.yaml")
}

// DataDir returns the per-workspace data directory.
func DataDir(workDir string) string {
	return filepath.Join(workDir, DataDirName)
}

// Load reads the workspace config file, applying defaults for anything
// unset. A missing file is not an error: defaults are returned.
func Load(workDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(workDir))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyBounds()
	return cfg, nil
}

// Save writes the config file, creating the data directory on demand.
func Save(workDir string, cfg *Config) error {
	if err := os.MkdirAll(DataDir(workDir), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(workDir), data, 0644)
}

// Timeout returns the LLM request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CommandTimeout returns the shell command timeout as a duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

func (c *Config) applyBounds() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = Default().TimeoutSeconds
	}
	if c.CommandTimeoutSeconds <= 0 {
		c.CommandTimeoutSeconds = Default().CommandTimeoutSeconds
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = Default().MaxTokens
	}
	if c.APIURL == "" {
		c.APIURL = Default().APIURL
	}
	if c.Model == "" {
		c.Model = Default().Model
	}
}
