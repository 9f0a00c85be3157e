package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Analysis.MaxQuestions != 3 {
		t.Errorf("MaxQuestions = %d, want 3", cfg.Analysis.MaxQuestions)
	}
	if cfg.Service.URL != "http://localhost:8000" {
		t.Errorf("Service.URL = %q", cfg.Service.URL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
project_id: webapp
service:
  url: https://clarify.internal:9000
  timeout: 5s
analysis:
  max_questions: 5
  policy: merge
  debounce: 1s
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectID != "webapp" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Service.Timeout)
	}
	if cfg.Analysis.MaxQuestions != 5 || cfg.Analysis.Policy != "merge" || cfg.Analysis.Debounce != time.Second {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("unset field lost its default: %q", cfg.Server.Addr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "project_id: from-file\n")
	t.Setenv(EnvProjectID, "from-env")
	t.Setenv(EnvServiceURL, "http://example.com")
	t.Setenv(EnvMaxQuestions, "7")
	t.Setenv(EnvDataDir, t.TempDir())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectID != "from-env" || cfg.Service.URL != "http://example.com" || cfg.Analysis.MaxQuestions != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_BadEnvInteger(t *testing.T) {
	t.Setenv(EnvMaxQuestions, "three")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for non-integer max questions")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "service: [unterminated")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Service.URL = "localhost:8000" }, "service.url"},
		{"negative timeout", func(c *Config) { c.Service.Timeout = -time.Second }, "service.timeout"},
		{"no data dir", func(c *Config) { c.Memory.DataDir = " " }, "memory.data_dir"},
		{"negative questions", func(c *Config) { c.Analysis.MaxQuestions = -1 }, "max_questions"},
		{"unknown policy", func(c *Config) { c.Analysis.Policy = "vote" }, "analysis.policy"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("err = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.ProjectID = "saved"
	cfg.Memory.DataDir = t.TempDir()

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ProjectID != "saved" || got.Service.Timeout != cfg.Service.Timeout {
		t.Errorf("round trip lost data: %+v", got)
	}
}
