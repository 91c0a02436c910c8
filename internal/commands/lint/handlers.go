package lintcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// ErrLintFeatureDisabled is returned when the lint feature flag is disabled at runtime.
var ErrLintFeatureDisabled = errors.New("lint command: feature disabled")

// ErrLintIssuesFound reports error-severity findings when FailOnError is set.
var ErrLintIssuesFound = errors.New("lint command: issues found")

var (
	_ command.Commander[LintDirectoryCommand] = (*LintDirectoryHandler)(nil)
	_ command.Commander[LintFileCommand]      = (*LintFileHandler)(nil)
)

// LintDirectoryHandler runs directory lint passes via the shared command handler foundation.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to the supplied linter.
func NewLintDirectoryHandler(linter interfaces.Linter, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		if !gates.lintEnabled() {
			return ErrLintFeatureDisabled
		}

		report, err := linter.LintDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if msg.ReportCallback != nil {
			msg.ReportCallback(report)
		}
		if msg.FailOnError && report.HasErrors() {
			return fmt.Errorf("%w: %d issue(s) across %d file(s)", ErrLintIssuesFound, len(report.Issues), report.Checked)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](logger),
		commands.WithOperation[LintDirectoryCommand]("lint.directory"),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.FailOnError {
				fields["fail_on_error"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintFileHandler runs single-file lint passes via the shared command handler foundation.
type LintFileHandler struct {
	inner *commands.Handler[LintFileCommand]
}

// NewLintFileHandler creates a handler bound to the supplied linter.
func NewLintFileHandler(linter interfaces.Linter, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[LintFileCommand]) *LintFileHandler {
	exec := func(ctx context.Context, msg LintFileCommand) error {
		if !gates.lintEnabled() {
			return ErrLintFeatureDisabled
		}

		report, err := linter.LintFile(ctx, msg.Path)
		if err != nil {
			return err
		}
		if msg.ReportCallback != nil {
			msg.ReportCallback(report)
		}
		if msg.FailOnError && report.HasErrors() {
			return fmt.Errorf("%w: %d issue(s) in %s", ErrLintIssuesFound, len(report.Issues), msg.Path)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintFileCommand]{
		commands.WithLogger[LintFileCommand](logger),
		commands.WithOperation[LintFileCommand]("lint.file"),
		commands.WithMessageFields(func(msg LintFileCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.FailOnError {
				fields["fail_on_error"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintFileCommand].
func (h *LintFileHandler) Execute(ctx context.Context, msg LintFileCommand) error {
	return h.inner.Execute(ctx, msg)
}
