package runtimeconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("expected sqlite default driver, got %q", cfg.Storage.Driver)
	}
	if !cfg.Features.Revisions {
		t.Fatal("expected revisions enabled by default")
	}
}

func TestValidateMarkdownRequiresFeature(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Markdown.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, ErrMarkdownFeatureRequired) {
		t.Fatalf("expected markdown feature error, got %v", err)
	}

	cfg.Features.Markdown = true
	cfg.Markdown.ContentDir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrMarkdownContentDirRequired) {
		t.Fatalf("expected content dir error, got %v", err)
	}
}

func TestValidateGeneratorConstraints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected output dir error, got %v", err)
	}

	cfg.Generator.OutputDir = "dist"
	cfg.Generator.BaseURL = "blog.example.com"
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorBaseURLInvalid) {
		t.Fatalf("expected base URL error, got %v", err)
	}

	cfg.Generator.BaseURL = "https://blog.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected generator config to validate, got %v", err)
	}
}

func TestValidateFeatureDependencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Revisions = false
	cfg.Features.Scheduling = true
	if err := cfg.Validate(); !errors.Is(err, ErrSchedulingRequiresRevisions) {
		t.Fatalf("expected scheduling dependency error, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Features.AdvancedCache = true
	if err := cfg.Validate(); !errors.Is(err, ErrAdvancedCacheRequiresEnabledCache) {
		t.Fatalf("expected cache dependency error, got %v", err)
	}
}

func TestValidateStorageDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "mysql"
	if err := cfg.Validate(); !errors.Is(err, ErrStorageDriverUnknown) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}

	for _, driver := range []string{"sqlite", "sqlite3", "postgres", "memory", ""} {
		cfg.Storage.Driver = driver
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected driver %q to validate, got %v", driver, err)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected provider required error, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected provider unknown error, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected level error, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected format error, got %v", err)
	}

	cfg.Logging.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected logging config to validate, got %v", err)
	}
}

func TestLoadFileMissingPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("expected defaults without error, got %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("expected default driver, got %q", cfg.Storage.Driver)
	}

	cfg, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("expected missing file to fall back to defaults, got %v", err)
	}
	if !cfg.Enabled {
		t.Fatal("expected defaults when file is missing")
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "press.yml")
	contents := `
site:
  title: Example Blog
  base_url: https://blog.example.com
features:
  markdown: true
markdown:
  enabled: true
  content_dir: ./articles
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Site.Title != "Example Blog" {
		t.Fatalf("expected overridden title, got %q", cfg.Site.Title)
	}
	if !cfg.Features.Markdown || !cfg.Markdown.Enabled {
		t.Fatal("expected markdown toggles from file")
	}
	if cfg.Markdown.ContentDir != "./articles" {
		t.Fatalf("expected content dir override, got %q", cfg.Markdown.ContentDir)
	}
	if cfg.Markdown.Pattern != "*.{md,mdx}" {
		t.Fatalf("expected default pattern retained, got %q", cfg.Markdown.Pattern)
	}
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("site: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}
