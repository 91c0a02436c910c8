package markdowncmd

import "testing"

func TestImportDirectoryCommandValidateRequiresDirectory(t *testing.T) {
	cmd := ImportDirectoryCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "   "
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory is blank")
	}

	cmd.Directory = "content"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}
}

func TestSyncDirectoryCommandValidateRequiresDirectory(t *testing.T) {
	cmd := SyncDirectoryCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "content"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}
}

func TestMessageTypes(t *testing.T) {
	if got := (ImportDirectoryCommand{}).Type(); got != "press.markdown.import_directory" {
		t.Fatalf("unexpected import message type: %s", got)
	}
	if got := (SyncDirectoryCommand{}).Type(); got != "press.markdown.sync_directory" {
		t.Fatalf("unexpected sync message type: %s", got)
	}
}
