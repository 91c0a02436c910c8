package staticcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-press/internal/generator"
)

type stubGenerator struct {
	buildCalls []generator.BuildOptions
	cleanCalls int

	result *generator.BuildResult
	err    error
}

func (s *stubGenerator) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.buildCalls = append(s.buildCalls, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubGenerator) Clean(ctx context.Context) error {
	s.cleanCalls++
	return s.err
}

var _ generator.Service = (*stubGenerator)(nil)

func enabledGates() FeatureGates {
	return FeatureGates{GeneratorEnabled: func() bool { return true }}
}

func TestBuildSiteHandlerInvokesGenerator(t *testing.T) {
	service := &stubGenerator{result: &generator.BuildResult{PostsBuilt: 3}}
	handler := NewBuildSiteHandler(service, nil, enabledGates())

	var envelope ResultEnvelope
	err := handler.Execute(context.Background(), BuildSiteCommand{
		Slugs:          []string{"hello-world"},
		ResultCallback: func(e ResultEnvelope) { envelope = e },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(service.buildCalls) != 1 {
		t.Fatalf("expected one build call, got %d", len(service.buildCalls))
	}
	if got := service.buildCalls[0].Slugs; len(got) != 1 || got[0] != "hello-world" {
		t.Fatalf("slugs not forwarded: %v", got)
	}
	if envelope.Result == nil || envelope.Result.PostsBuilt != 3 {
		t.Fatalf("expected build result in callback, got %+v", envelope.Result)
	}
}

func TestBuildSiteHandlerHonoursFeatureGate(t *testing.T) {
	service := &stubGenerator{}
	handler := NewBuildSiteHandler(service, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if len(service.buildCalls) != 0 {
		t.Fatal("generator must not run when gate is closed")
	}
}

func TestBuildSiteCommandValidatesSlugs(t *testing.T) {
	cmd := BuildSiteCommand{Slugs: []string{"ok", " "}}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected blank slug to fail validation")
	}
	cmd.Slugs = []string{"ok"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiffSiteHandlerForcesDryRun(t *testing.T) {
	service := &stubGenerator{result: &generator.BuildResult{}}
	handler := NewDiffSiteHandler(service, nil, enabledGates())

	if err := handler.Execute(context.Background(), DiffSiteCommand{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(service.buildCalls) != 1 || !service.buildCalls[0].DryRun {
		t.Fatalf("expected dry-run build, got %+v", service.buildCalls)
	}
}

func TestCleanSiteHandler(t *testing.T) {
	service := &stubGenerator{}
	handler := NewCleanSiteHandler(service, nil, enabledGates())

	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.cleanCalls != 1 {
		t.Fatalf("expected one clean call, got %d", service.cleanCalls)
	}
}
