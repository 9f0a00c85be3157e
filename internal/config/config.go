// Package config loads clarify's settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/clarify/internal/analysis"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// Environment overrides.
const (
	EnvServiceURL   = "CLARIFY_SERVICE_URL"
	EnvProjectID    = "CLARIFY_PROJECT_ID"
	EnvAddr         = "CLARIFY_ADDR"
	EnvDataDir      = "CLARIFY_DATA_DIR"
	EnvLogLevel     = "CLARIFY_LOG_LEVEL"
	EnvLogFormat    = "CLARIFY_LOG_FORMAT"
	EnvMaxQuestions = "CLARIFY_MAX_QUESTIONS"
)

// Config is the full clarify configuration.
type Config struct {
	ProjectID string   `yaml:"project_id"`
	Service   Service  `yaml:"service"`
	Server    Server   `yaml:"server"`
	Memory    Memory   `yaml:"memory"`
	Analysis  Analysis `yaml:"analysis"`
	Log       Log      `yaml:"log"`
}

// Service is where the client finds the clarify service.
type Service struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Server configures `clarify serve`.
type Server struct {
	Addr string `yaml:"addr"`
}

// Memory configures the SQLite store.
type Memory struct {
	DataDir          string `yaml:"data_dir"`
	MaxTurnLength    int    `yaml:"max_turn_length"`
	MaxThreadResults int    `yaml:"max_thread_results"`
}

// Analysis configures how findings are chosen and when analysis runs.
type Analysis struct {
	MaxQuestions  int           `yaml:"max_questions"`
	Policy        string        `yaml:"policy"`
	AutoAnalyze   bool          `yaml:"auto_analyze"`
	AnalyzeOnSave bool          `yaml:"analyze_on_save"`
	Debounce      time.Duration `yaml:"debounce"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultDir returns ~/.clarify.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clarify")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProjectID: "default",
		Service: Service{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Server: Server{Addr: ":8000"},
		Memory: Memory{
			DataDir:          DefaultDir(),
			MaxTurnLength:    8000,
			MaxThreadResults: 20,
		},
		Analysis: Analysis{
			MaxQuestions:  analysis.DefaultMaxQuestions,
			Policy:        string(analysis.PolicyReplace),
			AutoAnalyze:   true,
			AnalyzeOnSave: true,
			Debounce:      500 * time.Millisecond,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvServiceURL); v != "" {
		c.Service.URL = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Memory.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvMaxQuestions); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: not an integer", EnvMaxQuestions, v)
		}
		c.Analysis.MaxQuestions = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.Service.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: service.url %q must be an http(s) URL", c.Service.URL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("config: service.timeout must not be negative")
	}
	if strings.TrimSpace(c.Memory.DataDir) == "" {
		return fmt.Errorf("config: memory.data_dir must be set")
	}
	if c.Analysis.MaxQuestions < 0 {
		return fmt.Errorf("config: analysis.max_questions must not be negative")
	}
	if _, err := analysis.ParsePolicy(c.Analysis.Policy); err != nil {
		return fmt.Errorf("config: analysis.policy: %w", err)
	}
	if c.Analysis.Debounce < 0 {
		return fmt.Errorf("config: analysis.debounce must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q must be json or console", c.Log.Format)
	}
	return nil
}
