package press

import (
	"context"

	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// PostService exports the post service contract for consumers of the press package.
type PostService = posts.Service

// MarkdownService exports the markdown ingestion contract.
type MarkdownService = interfaces.MarkdownService

// Linter exports the content lint contract.
type Linter = interfaces.Linter

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// Document exports the parsed content file DTO.
type Document = interfaces.Document

// FrontMatter exports the content metadata DTO.
type FrontMatter = interfaces.FrontMatter

// Module represents the top level press runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a press module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// EnsureSchema creates the persistence schema when a database is configured.
func (m *Module) EnsureSchema(ctx context.Context) error {
	return m.container.EnsureSchema(ctx)
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Markdown returns the configured markdown service; nil when the feature is disabled.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Linter returns the configured linter; nil when the feature is disabled.
func (m *Module) Linter() Linter {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Linter()
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}
