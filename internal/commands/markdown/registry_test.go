package markdowncmd

import (
	"errors"
	"testing"
)

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterMarkdownCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterMarkdownCommands(reg, &stubMarkdownService{}, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set == nil || set.Import == nil || set.Sync == nil {
		t.Fatal("expected both handlers in the set")
	}
	if len(reg.handlers) != 2 {
		t.Fatalf("expected two registered handlers, got %d", len(reg.handlers))
	}
}

func TestRegisterMarkdownCommandsRequiresService(t *testing.T) {
	if _, err := RegisterMarkdownCommands(&recordingRegistry{}, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when service is nil")
	}
}

func TestRegisterMarkdownCommandsPropagatesRegistryError(t *testing.T) {
	reg := &recordingRegistry{err: errors.New("register failed")}
	if _, err := RegisterMarkdownCommands(reg, &stubMarkdownService{}, nil, FeatureGates{}); err == nil {
		t.Fatal("expected registry error to propagate")
	}
}

func TestRegisterMarkdownCommandsWithoutRegistry(t *testing.T) {
	set, err := RegisterMarkdownCommands(nil, &stubMarkdownService{}, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set == nil || set.Import == nil || set.Sync == nil {
		t.Fatal("expected handlers even without a registry")
	}
}
