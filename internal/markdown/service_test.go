package markdown

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-press/internal/domain"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
)

func newTestService(tb testing.TB, postService posts.Service) *Service {
	tb.Helper()

	svc, err := NewService(Config{
		BasePath:  filepath.Join("testdata", "content"),
		Pattern:   "*.{md,mdx}",
		Recursive: true,
	}, nil, postService, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}

func newTestPostService() posts.Service {
	return posts.NewService(posts.ServiceConfig{
		CaptureRevisions: true,
		AllowScheduling:  true,
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	})
}

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, newTestPostService())

	doc, err := svc.Load(context.Background(), "hello-world.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.FrontMatter.Title != "Hello World" {
		t.Fatalf("unexpected title: %q", doc.FrontMatter.Title)
	}
	if len(doc.BodyHTML) == 0 {
		t.Fatal("expected BodyHTML to be populated")
	}
	if len(doc.Checksum) == 0 {
		t.Fatal("expected checksum to be populated")
	}
	if !strings.Contains(string(doc.BodyHTML), "language-go") {
		t.Fatalf("expected fenced code block in rendered HTML, got %s", doc.BodyHTML)
	}
}

func TestServiceLoadDirectoryMatchesMDX(t *testing.T) {
	svc := newTestService(t, newTestPostService())

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	var foundMDX bool
	for _, doc := range docs {
		if len(doc.Checksum) == 0 {
			t.Fatalf("expected checksum set for %s", doc.FilePath)
		}
		if filepath.Ext(doc.FilePath) == ".mdx" {
			foundMDX = true
			if !strings.Contains(string(doc.BodyHTML), "<Chart") {
				t.Fatalf("expected component passthrough in %s", doc.FilePath)
			}
		}
	}
	if !foundMDX {
		t.Fatal("expected .mdx document to match the default pattern")
	}
}

func TestServiceLoadDirectoryNonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, newTestPostService())

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents without recursion, got %d", len(docs))
	}
	for _, doc := range docs {
		if strings.Contains(doc.FilePath, "drafts/") {
			t.Fatalf("non-recursive load must not descend into drafts: %s", doc.FilePath)
		}
	}
}

func TestServiceImportDirectory(t *testing.T) {
	postService := newTestPostService()
	svc := newTestService(t, postService)
	ctx := context.Background()

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{
		PublishImmediately: true,
	})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.CreatedSlugs) != 3 {
		t.Fatalf("expected 3 created posts, got %d (%v)", len(result.CreatedSlugs), result.Errors)
	}

	hello, err := postService.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get hello-world: %v", err)
	}
	if hello.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %q", hello.Status)
	}
	if !strings.Contains(hello.Body, "# Hello World") {
		t.Fatalf("expected body round-trip, got %q", hello.Body)
	}
	if len(hello.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(hello.Tags))
	}

	draft, err := postService.GetBySlug(ctx, "wip-notes")
	if err != nil {
		t.Fatalf("get wip-notes: %v", err)
	}
	if draft.Status != domain.StatusDraft {
		t.Fatalf("draft front matter must keep posts in draft, got %q", draft.Status)
	}

	charts, err := postService.GetBySlug(ctx, "interactive-charts")
	if err != nil {
		t.Fatalf("get interactive-charts: %v", err)
	}
	if charts.Metadata["hero"] != "/images/charts.png" {
		t.Fatalf("expected custom front matter in metadata, got %#v", charts.Metadata)
	}
}

func TestServiceImportDirectoryIdempotent(t *testing.T) {
	postService := newTestPostService()
	svc := newTestService(t, postService)
	ctx := context.Background()

	if _, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.CreatedSlugs) != 0 || len(result.UpdatedSlugs) != 0 {
		t.Fatalf("re-import of unchanged files must be a no-op, got created=%v updated=%v",
			result.CreatedSlugs, result.UpdatedSlugs)
	}
	if len(result.SkippedSlugs) != 3 {
		t.Fatalf("expected 3 skipped, got %d", len(result.SkippedSlugs))
	}
}

func TestServiceImportDryRun(t *testing.T) {
	postService := newTestPostService()
	svc := newTestService(t, postService)
	ctx := context.Background()

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry-run import: %v", err)
	}
	if len(result.CreatedSlugs) != 3 {
		t.Fatalf("dry-run should report pending creates, got %d", len(result.CreatedSlugs))
	}

	records, err := postService.List(ctx, posts.ListOptions{})
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("dry-run must not persist posts, found %d", len(records))
	}
}

func TestServiceSyncDeleteOrphaned(t *testing.T) {
	postService := newTestPostService()
	svc := newTestService(t, postService)
	ctx := context.Background()

	// Seed a file-backed post whose source no longer exists.
	orphan, err := postService.Create(ctx, posts.CreatePostRequest{
		Title:      "Gone From Disk",
		Body:       "stale",
		SourcePath: "removed.md",
		Checksum:   "deadbeef",
	})
	if err != nil {
		t.Fatalf("seed orphan: %v", err)
	}
	// Posts created by hand (no source path) must survive sync.
	manual, err := postService.Create(ctx, posts.CreatePostRequest{
		Title: "Hand Written",
		Body:  "kept",
	})
	if err != nil {
		t.Fatalf("seed manual post: %v", err)
	}

	result, err := svc.Sync(ctx, ".", interfaces.SyncOptions{
		ImportOptions:  interfaces.ImportOptions{},
		DeleteOrphaned: true,
		UpdateExisting: true,
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("expected 3 created, got %d", result.Created)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 orphan deleted, got %d", result.Deleted)
	}

	if _, err := postService.Get(ctx, orphan.ID); err == nil {
		t.Fatal("expected orphan to be deleted")
	}
	if _, err := postService.Get(ctx, manual.ID); err != nil {
		t.Fatalf("manual post must survive sync: %v", err)
	}
}
