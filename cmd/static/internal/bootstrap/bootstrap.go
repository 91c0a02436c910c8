package bootstrap

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Options captures configuration for the static site CLI bootstrap.
type Options struct {
	ConfigPath     string
	OutputDir      string
	BaseURL        string
	TemplatesDir   string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module and the configured generator service/logger.
type Module struct {
	Module  *press.Module
	Service generator.Service
	Logger  interfaces.Logger
}

// BuildModule constructs a press module configured for static site builds.
func BuildModule(opts Options) (*Module, error) {
	// A missing .env is fine; flags and config files take over.
	_ = godotenv.Load()

	cfg, err := press.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.Features.Generator = true
	cfg.Generator.Enabled = true
	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Generator.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.BaseURL); trimmed != "" {
		cfg.Generator.BaseURL = trimmed
	}
	if trimmed := strings.TrimSpace(opts.TemplatesDir); trimmed != "" {
		cfg.Generator.TemplatesDir = trimmed
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := press.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	service := module.Generator()
	if service == nil {
		return nil, fmt.Errorf("generator service not configured; ensure generator feature is enabled")
	}

	logger := logging.GeneratorLogger(module.Container().LoggerProvider())

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
