package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrMarkdownFeatureRequired flags markdown configuration without the feature enabled.
var ErrMarkdownFeatureRequired = errors.New("press config: markdown feature must be enabled to configure markdown")

// ErrMarkdownContentDirRequired ensures ingestion always has a content root.
var ErrMarkdownContentDirRequired = errors.New("press config: markdown content directory is required when markdown is enabled")

// ErrGeneratorOutputDirRequired ensures site builds always have a destination.
var ErrGeneratorOutputDirRequired = errors.New("press config: generator output directory is required when generator is enabled")

// ErrGeneratorBaseURLInvalid flags malformed base URLs for feeds and sitemap output.
var ErrGeneratorBaseURLInvalid = errors.New("press config: generator base URL must be absolute")

// ErrSchedulingRequiresRevisions keeps publish scheduling behind revision capture.
var ErrSchedulingRequiresRevisions = errors.New("press config: scheduling feature requires revisions to be enabled")

// ErrAdvancedCacheRequiresEnabledCache ensures cached repositories only build when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("press config: advanced cache feature requires cache to be enabled")

var ErrStorageDriverUnknown = errors.New("press config: storage driver is invalid")
var ErrLoggingProviderRequired = errors.New("press config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("press config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("press config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("press config: logging format is invalid")
var ErrLintSummaryLimitInvalid = errors.New("press config: lint summary limit must be zero or positive")

// Config aggregates feature flags and adapter bindings for the press module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool            `yaml:"enabled"`
	Site      SiteConfig      `yaml:"site"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Features  Features        `yaml:"features"`
	Commands  CommandsConfig  `yaml:"commands"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Lint      LintConfig      `yaml:"lint"`
	Generator GeneratorConfig `yaml:"generator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig carries site-wide metadata surfaced in rendered pages and feeds.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
	AuthorName  string `yaml:"author_name"`
}

// StorageConfig selects the persistence backend for posts.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig captures cache behaviour toggles for repositories.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// Features toggles module functionality.
type Features struct {
	Markdown      bool `yaml:"markdown"`
	Lint          bool `yaml:"lint"`
	Generator     bool `yaml:"generator"`
	Revisions     bool `yaml:"revisions"`
	Scheduling    bool `yaml:"scheduling"`
	AdvancedCache bool `yaml:"advanced_cache"`
	Logger        bool `yaml:"logger"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// MarkdownConfig captures filesystem and parser behaviour for content ingestion.
type MarkdownConfig struct {
	Enabled    bool                 `yaml:"enabled"`
	ContentDir string               `yaml:"content_dir"`
	Pattern    string               `yaml:"pattern"`
	Recursive  bool                 `yaml:"recursive"`
	Parser     MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// LintConfig captures the content hygiene rules applied by the linter.
type LintConfig struct {
	Layouts      []string       `yaml:"layouts"`
	SummaryLimit int            `yaml:"summary_limit"`
	RequireDate  bool           `yaml:"require_date"`
	SchemaPath   string         `yaml:"schema_path"`
	Schema       map[string]any `yaml:"schema"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool           `yaml:"enabled"`
	OutputDir       string         `yaml:"output_dir"`
	BaseURL         string         `yaml:"base_url"`
	TemplatesDir    string         `yaml:"templates_dir"`
	DefaultLayout   string         `yaml:"default_layout"`
	CleanBuild      bool           `yaml:"clean_build"`
	Incremental     bool           `yaml:"incremental"`
	GenerateSitemap bool           `yaml:"generate_sitemap"`
	GenerateRobots  bool           `yaml:"generate_robots"`
	GenerateFeeds   bool           `yaml:"generate_feeds"`
	Workers         int            `yaml:"workers"`
	Routes          *urlkit.Config `yaml:"-"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns opinionated defaults for an embedded press module.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title:    "go-press",
			Language: "en",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Revisions: true,
		},
		Commands: CommandsConfig{},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.{md,mdx}",
			Recursive:  true,
		},
		Lint: LintConfig{
			SummaryLimit: 280,
			RequireDate:  true,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			DefaultLayout:   "post",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  false,
			GenerateFeeds:   true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirRequired
		}
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if base := strings.TrimSpace(cfg.Generator.BaseURL); base != "" {
			if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
				return fmt.Errorf("%w: %s", ErrGeneratorBaseURLInvalid, base)
			}
		}
	}
	if cfg.Features.Scheduling && !cfg.Features.Revisions {
		return ErrSchedulingRequiresRevisions
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if driver := normalizeDriver(cfg.Storage.Driver); driver != "" && !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if cfg.Lint.SummaryLimit < 0 {
		return ErrLintSummaryLimitInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres", "memory":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
