package lintcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	lintDirectoryMessageType = "press.lint.directory"
	lintFileMessageType      = "press.lint.file"
)

// ReportCallback receives lint reports produced by handler executions. The callback is optional
// and is invoked synchronously before the handler resolves its error.
type ReportCallback func(*interfaces.LintReport)

// LintDirectoryCommand lints every content file under the provided directory.
type LintDirectoryCommand struct {
	Directory string `json:"directory"`
	// FailOnError turns error-severity findings into a command failure.
	FailOnError    bool           `json:"fail_on_error,omitempty"`
	ReportCallback ReportCallback `json:"-"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.lint.directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// LintFileCommand lints a single content file.
type LintFileCommand struct {
	Path string `json:"path"`
	// FailOnError turns error-severity findings into a command failure.
	FailOnError    bool           `json:"fail_on_error,omitempty"`
	ReportCallback ReportCallback `json:"-"`
}

// Type implements command.Message.
func (LintFileCommand) Type() string { return lintFileMessageType }

// Validate ensures path input is present before handlers execute.
func (cmd LintFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.lint.file.path_required", "path is required")
			}
			return nil
		})),
	)
}

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	LintEnabled func() bool
}

func (g FeatureGates) lintEnabled() bool {
	if g.LintEnabled == nil {
		return true
	}
	return g.LintEnabled()
}
