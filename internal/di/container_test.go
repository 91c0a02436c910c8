package di

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/internal/runtimeconfig"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "memory"
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	container, err := NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.PostService() == nil {
		t.Fatal("expected post service")
	}
	if container.DB() != nil {
		t.Fatal("memory driver must not open a database")
	}
	if container.MarkdownService() != nil {
		t.Fatal("markdown service must be nil when feature is disabled")
	}
	if container.Linter() != nil {
		t.Fatal("linter must be nil when feature is disabled")
	}
	if container.GeneratorService() == nil {
		t.Fatal("expected a generator binding even when disabled")
	}
	if _, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{}); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected disabled generator, got %v", err)
	}
}

func TestNewContainerValidatesConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Markdown.Enabled = true
	cfg.Features.Markdown = false

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrMarkdownFeatureRequired) {
		t.Fatalf("expected ErrMarkdownFeatureRequired, got %v", err)
	}
}

func TestNewContainerEnablesMarkdownAndLint(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Markdown = true
	cfg.Features.Lint = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = t.TempDir()

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.MarkdownService() == nil {
		t.Fatal("expected markdown service")
	}
	if container.Linter() == nil {
		t.Fatal("expected linter")
	}
}

func TestNewContainerEnablesGenerator(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Generator = true
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = t.TempDir()
	cfg.Generator.BaseURL = "https://blog.example.com"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.GeneratorService() == nil {
		t.Fatal("expected generator service")
	}
	if container.RouteManager() == nil {
		t.Fatal("expected route manager")
	}
}

func TestNewContainerGeneratorOverride(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Generator = true
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = t.TempDir()

	store := generator.NewMemoryStore()
	container, err := NewContainer(cfg, WithArtifactStore(store))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{}); err != nil {
		t.Fatalf("build with injected store: %v", err)
	}
}

func TestNewContainerPostLifecycle(t *testing.T) {
	container, err := NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	ctx := context.Background()
	svc := container.PostService()
	created, err := svc.Create(ctx, posts.CreatePostRequest{
		Title: "Container Post",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "container-post" {
		t.Fatalf("unexpected slug: %s", created.Slug)
	}
}

func TestNewContainerPostgresRequiresHandle(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "postgres"

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error when postgres driver lacks an injected handle")
	}
}
