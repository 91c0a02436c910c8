package bootstrap

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Options captures configuration for markdown CLI bootstraps.
type Options struct {
	ConfigPath     string
	ContentDir     string
	Pattern        string
	Recursive      bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module and the configured markdown service/logger.
type Module struct {
	Module  *press.Module
	Service interfaces.MarkdownService
	Logger  interfaces.Logger
}

// BuildModule constructs a press module configured for markdown operations.
func BuildModule(opts Options) (*Module, error) {
	// A missing .env is fine; flags and config files take over.
	_ = godotenv.Load()

	cfg, err := press.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	if trimmed := strings.TrimSpace(opts.ContentDir); trimmed != "" {
		cfg.Markdown.ContentDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Markdown.Recursive = opts.Recursive

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := press.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		return nil, fmt.Errorf("markdown service not configured; ensure markdown feature is enabled")
	}

	logger := logging.MarkdownLogger(module.Container().LoggerProvider())

	return &Module{
		Module:  module,
		Service: service,
		Logger:  logger,
	}, nil
}

// SplitList parses a comma separated value list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
