package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Logging  LoggingConfig  `yaml:"logging"`
	Assembly AssemblyConfig `yaml:"assembly"`
	History  HistoryConfig  `yaml:"history,omitempty"`
	Audit    AuditConfig    `yaml:"audit,omitempty"`
	Backends BackendsConfig `yaml:"backends,omitempty"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// AssemblyConfig drives the prompt engine: the template catalog, default
// variables, and the context/budget knobs.
type AssemblyConfig struct {
	// Templates are inline template bodies keyed by identifier. They win
	// over same-named files from TemplatesDir.
	Templates map[string]string `yaml:"templates,omitempty"`
	// TemplatesDir is scanned for *.md, *.txt and *.tmpl template files.
	// A missing directory is not an error.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	// DefaultVariables may hold strings, numbers, bools, or structures.
	DefaultVariables map[string]interface{} `yaml:"default_variables,omitempty"`
	MaxTokens        int                    `yaml:"max_tokens"`
	IncludeHistory   bool                   `yaml:"include_history"`
	HistoryLength    int                    `yaml:"history_length"`
}

type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

type AuditConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Dir             string `yaml:"dir,omitempty"`
	FilePrefix      string `yaml:"file_prefix,omitempty"`
	RetentionDays   int    `yaml:"retention_days,omitempty"`
	CleanupSchedule string `yaml:"cleanup_schedule,omitempty"`
}

type BackendsConfig struct {
	Default   string          `yaml:"default,omitempty"`
	Providers []BackendConfig `yaml:"providers,omitempty"`
}

type BackendConfig struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"` // "openai" or "anthropic"
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8750,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Assembly: AssemblyConfig{
			TemplatesDir:   filepath.Join(DataDir(), "templates"),
			MaxTokens:      4096,
			IncludeHistory: true,
			HistoryLength:  5,
		},
		History: HistoryConfig{
			Path: filepath.Join(DataDir(), "history.db"),
		},
		Audit: AuditConfig{
			Enabled:         false,
			Dir:             filepath.Join(DataDir(), "audit"),
			FilePrefix:      "assembly",
			RetentionDays:   7,
			CleanupSchedule: "0 30 3 * * *",
		},
	}
}

func DataDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".promptforge")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".promptforge.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads a config file on top of the defaults. A missing file
// yields the defaults unchanged.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Assembly.MaxTokens <= 0 {
		return fmt.Errorf("assembly.max_tokens must be positive, got %d", c.Assembly.MaxTokens)
	}
	if c.Assembly.HistoryLength < 0 {
		return fmt.Errorf("assembly.history_length must not be negative, got %d", c.Assembly.HistoryLength)
	}
	if c.Audit.Enabled {
		if c.Audit.Dir == "" {
			return fmt.Errorf("audit.dir must be set when audit is enabled")
		}
		if c.Audit.RetentionDays < 0 {
			return fmt.Errorf("audit.retention_days must not be negative, got %d", c.Audit.RetentionDays)
		}
	}

	seen := make(map[string]bool)
	for _, b := range c.Backends.Providers {
		if b.Name == "" {
			return fmt.Errorf("backend without a name")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate backend name %q", b.Name)
		}
		seen[b.Name] = true
		switch b.Type {
		case "openai", "anthropic":
		default:
			return fmt.Errorf("backend %q has unknown type %q", b.Name, b.Type)
		}
	}
	if c.Backends.Default != "" && !seen[c.Backends.Default] {
		return fmt.Errorf("default backend %q is not configured", c.Backends.Default)
	}
	return nil
}
