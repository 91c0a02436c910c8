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

// Options captures configuration for the lint CLI bootstrap.
type Options struct {
	ConfigPath     string
	SchemaPath     string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module and the configured linter/logger.
type Module struct {
	Module *press.Module
	Linter interfaces.Linter
	Logger interfaces.Logger
}

// BuildModule constructs a press module configured for content linting.
func BuildModule(opts Options) (*Module, error) {
	// A missing .env is fine; flags and config files take over.
	_ = godotenv.Load()

	cfg, err := press.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg.Features.Lint = true
	if trimmed := strings.TrimSpace(opts.SchemaPath); trimmed != "" {
		cfg.Lint.SchemaPath = trimmed
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := press.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	linter := module.Linter()
	if linter == nil {
		return nil, fmt.Errorf("linter not configured; ensure lint feature is enabled")
	}

	logger := logging.LintLogger(module.Container().LoggerProvider())

	return &Module{
		Module: module,
		Linter: linter,
		Logger: logger,
	}, nil
}
