package main

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-press/cmd/markdown/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/interfaces"
)

type importCall struct {
	dir  string
	opts interfaces.ImportOptions
}

type stubMarkdownService struct {
	importCalls []importCall
	result      *interfaces.ImportResult
	err         error
}

var _ interfaces.MarkdownService = (*stubMarkdownService)(nil)

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return s.result, s.err
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls = append(s.importCalls, importCall{dir: dir, opts: opts})
	if s.result != nil || s.err != nil {
		return s.result, s.err
	}
	return &interfaces.ImportResult{}, nil
}

func (s *stubMarkdownService) Sync(context.Context, string, interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	return &interfaces.SyncResult{}, nil
}

func withStubBuilder(t *testing.T, service interfaces.MarkdownService, err error) {
	t.Helper()
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		if err != nil {
			return nil, err
		}
		return &bootstrap.Module{Service: service}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
}

func TestRunImportInvokesService(t *testing.T) {
	service := &stubMarkdownService{result: &interfaces.ImportResult{CreatedSlugs: []string{"hello-world"}}}
	withStubBuilder(t, service, nil)

	err := runImport([]string{
		"--directory", "posts",
		"--author", "Editorial Team",
		"--publish",
		"--dry-run",
	})
	if err != nil {
		t.Fatalf("expected import run to succeed, got %v", err)
	}

	if len(service.importCalls) != 1 {
		t.Fatalf("expected one import call, got %d", len(service.importCalls))
	}
	call := service.importCalls[0]
	if call.dir != "posts" {
		t.Fatalf("expected directory 'posts', got %q", call.dir)
	}
	if call.opts.Author != "Editorial Team" {
		t.Fatalf("expected author override, got %q", call.opts.Author)
	}
	if !call.opts.PublishImmediately {
		t.Fatal("expected publish flag to be forwarded")
	}
	if !call.opts.DryRun {
		t.Fatal("expected dry-run flag to be forwarded")
	}
}

func TestRunImportBuilderFailure(t *testing.T) {
	builderErr := errors.New("bootstrap failed")
	withStubBuilder(t, nil, builderErr)

	err := runImport([]string{"--directory", "posts"})
	if err == nil {
		t.Fatal("expected error when module construction fails")
	}
	if !errors.Is(err, builderErr) {
		t.Fatalf("expected wrapped bootstrap error, got %v", err)
	}
}

func TestRunImportMissingService(t *testing.T) {
	withStubBuilder(t, nil, nil)

	if err := runImport([]string{"--directory", "posts"}); err == nil {
		t.Fatal("expected error when markdown service is not configured")
	}
}

func TestRunImportValidatesDirectory(t *testing.T) {
	service := &stubMarkdownService{}
	withStubBuilder(t, service, nil)

	if err := runImport([]string{"--directory", "   "}); err == nil {
		t.Fatal("expected validation error for blank directory")
	}
	if len(service.importCalls) != 0 {
		t.Fatalf("expected no import calls, got %d", len(service.importCalls))
	}
}
