package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "press.markdown.import_directory"
	syncDirectoryMessageType   = "press.markdown.sync_directory"
)

// ImportDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory. The command mirrors markdown.Service
// ImportDirectory semantics, allowing callers to supply import options that
// map directly onto interfaces.ImportOptions for post creation.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative to the content root) to load Markdown files from.
	Directory string `json:"directory"`
	// Author overrides the front matter byline recorded on imported posts.
	Author string `json:"author,omitempty"`
	// PublishImmediately promotes non-draft documents to published on import.
	PublishImmediately bool `json:"publish_immediately,omitempty"`
	// DryRun toggles preview mode to collect import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncDirectoryCommand orchestrates a Markdown sync run for the provided
// Directory, applying deletion or update flags consistent with
// interfaces.SyncOptions.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative to the content root) to load Markdown files from.
	Directory string `json:"directory"`
	// Author overrides the front matter byline recorded on imported posts.
	Author string `json:"author,omitempty"`
	// PublishImmediately promotes non-draft documents to published on import.
	PublishImmediately bool `json:"publish_immediately,omitempty"`
	// DryRun toggles preview mode to collect import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes file-backed posts without matching Markdown files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
	// UpdateExisting overwrites existing posts when Markdown files have changed.
	UpdateExisting bool `json:"update_existing,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.markdown.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
