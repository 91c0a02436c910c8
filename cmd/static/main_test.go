package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-press/cmd/static/internal/bootstrap"
	"github.com/goliatone/go-press/internal/generator"
)

type stubGeneratorService struct {
	buildCalls []generator.BuildOptions
	cleanCalls int
	result     *generator.BuildResult
	err        error
}

var _ generator.Service = (*stubGeneratorService)(nil)

func (s *stubGeneratorService) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.buildCalls = append(s.buildCalls, opts)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &generator.BuildResult{}, nil
}

func (s *stubGeneratorService) Clean(context.Context) error {
	s.cleanCalls++
	return s.err
}

func withStubBuilder(t *testing.T, service generator.Service, err error) {
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

func TestRunBuildInvokesGenerator(t *testing.T) {
	service := &stubGeneratorService{result: &generator.BuildResult{
		PostsBuilt:    3,
		ListingsBuilt: 2,
		Duration:      150 * time.Millisecond,
	}}
	withStubBuilder(t, service, nil)

	err := runBuild([]string{
		"--slugs", "hello-world, second-post",
		"--dry-run",
	})
	if err != nil {
		t.Fatalf("expected build run to succeed, got %v", err)
	}

	if len(service.buildCalls) != 1 {
		t.Fatalf("expected one build call, got %d", len(service.buildCalls))
	}
	call := service.buildCalls[0]
	if len(call.Slugs) != 2 || call.Slugs[0] != "hello-world" || call.Slugs[1] != "second-post" {
		t.Fatalf("expected trimmed slug filter, got %v", call.Slugs)
	}
	if !call.DryRun {
		t.Fatal("expected dry-run flag to be forwarded")
	}
}

func TestRunBuildCleanMode(t *testing.T) {
	service := &stubGeneratorService{}
	withStubBuilder(t, service, nil)

	if err := runBuild([]string{"--clean"}); err != nil {
		t.Fatalf("expected clean run to succeed, got %v", err)
	}
	if service.cleanCalls != 1 {
		t.Fatalf("expected one clean call, got %d", service.cleanCalls)
	}
	if len(service.buildCalls) != 0 {
		t.Fatalf("expected no build calls in clean mode, got %d", len(service.buildCalls))
	}
}

func TestRunBuildBuilderFailure(t *testing.T) {
	builderErr := errors.New("bootstrap failed")
	withStubBuilder(t, nil, builderErr)

	err := runBuild(nil)
	if err == nil {
		t.Fatal("expected error when module construction fails")
	}
	if !errors.Is(err, builderErr) {
		t.Fatalf("expected wrapped bootstrap error, got %v", err)
	}
}

func TestRunBuildGeneratorError(t *testing.T) {
	service := &stubGeneratorService{err: errors.New("render failed")}
	withStubBuilder(t, service, nil)

	if err := runBuild(nil); err == nil {
		t.Fatal("expected build failure to surface")
	}
}
