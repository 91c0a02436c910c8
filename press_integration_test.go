package press_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/pkg/testsupport"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const publishedArticle = `---
title: Hello World
slug: hello-world
date: 2025-05-01T10:00:00Z
tags:
  - go
  - release
layout: post
summary: The first article published through the pipeline.
---

# Hello World

Welcome to the blog.
`

const draftArticle = `---
title: Work In Progress
slug: work-in-progress
date: 2025-05-02T09:00:00Z
draft: true
layout: post
summary: Not ready yet.
---

Rough notes only.
`

func writeContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello-world.md"), []byte(publishedArticle), 0o644); err != nil {
		t.Fatalf("write published article: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "work-in-progress.mdx"), []byte(draftArticle), 0o644); err != nil {
		t.Fatalf("write draft article: %v", err)
	}
	return dir
}

func TestModule_MarkdownImportPublishBuildWithBun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	contentDir := writeContentDir(t)

	cfg := press.DefaultConfig()
	cfg.Site.Title = "Integration Blog"
	cfg.Site.BaseURL = "https://blog.example.com"
	cfg.Features.Markdown = true
	cfg.Features.Generator = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = contentDir
	cfg.Generator.Enabled = true
	cfg.Generator.BaseURL = "https://blog.example.com"
	cfg.Generator.OutputDir = t.TempDir()

	store := generator.NewMemoryStore()
	module, err := press.New(cfg,
		di.WithBunDB(bunDB),
		di.WithArtifactStore(store),
	)
	if err != nil {
		t.Fatalf("new press module: %v", err)
	}
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	markdownSvc := module.Markdown()
	if markdownSvc == nil {
		t.Fatal("expected markdown service to be configured")
	}

	result, err := markdownSvc.ImportDirectory(ctx, ".", interfaces.ImportOptions{
		PublishImmediately: true,
	})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if len(result.CreatedSlugs) != 2 {
		t.Fatalf("expected two created posts, got %v", result.CreatedSlugs)
	}

	postsSvc := module.Posts()
	published, err := postsSvc.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get published post: %v", err)
	}
	if !published.IsVisible {
		t.Fatalf("expected hello-world to be visible, status %s", published.Status)
	}
	if len(published.Tags) != 2 {
		t.Fatalf("expected two tags on hello-world, got %d", len(published.Tags))
	}

	draft, err := postsSvc.GetBySlug(ctx, "work-in-progress")
	if err != nil {
		t.Fatalf("get draft post: %v", err)
	}
	if draft.IsVisible {
		t.Fatal("expected draft front matter to keep the post hidden")
	}

	buildResult, err := module.Generator().Build(ctx, generator.BuildOptions{})
	if err != nil {
		t.Fatalf("build site: %v", err)
	}
	if buildResult.PostsBuilt != 1 {
		t.Fatalf("expected one visible post built, got %d", buildResult.PostsBuilt)
	}

	page, err := store.ReadFile(ctx, "posts/hello-world/index.html")
	if err != nil {
		t.Fatalf("read generated post page: %v", err)
	}
	if !strings.Contains(string(page), "Hello World") {
		t.Fatal("expected generated page to contain the post title")
	}
	if _, err := store.ReadFile(ctx, "posts/work-in-progress/index.html"); err == nil {
		t.Fatal("expected draft post to stay out of the generated site")
	}

	paths, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	var hasIndex, hasSitemap bool
	for _, path := range paths {
		switch path {
		case "index.html":
			hasIndex = true
		case "sitemap.xml":
			hasSitemap = true
		}
	}
	if !hasIndex {
		t.Fatalf("expected listing index.html in artifacts: %v", paths)
	}
	if !hasSitemap {
		t.Fatalf("expected sitemap.xml in artifacts: %v", paths)
	}
}

func TestModule_SyncReconcilesDraftFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	contentDir := writeContentDir(t)

	cfg := press.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = contentDir

	module, err := press.New(cfg)
	if err != nil {
		t.Fatalf("new press module: %v", err)
	}

	markdownSvc := module.Markdown()
	if _, err := markdownSvc.ImportDirectory(ctx, ".", interfaces.ImportOptions{PublishImmediately: true}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	// Flip the published article to draft and re-sync.
	amended := strings.Replace(publishedArticle, "layout: post", "layout: post\ndraft: true", 1)
	if err := os.WriteFile(filepath.Join(contentDir, "hello-world.md"), []byte(amended), 0o644); err != nil {
		t.Fatalf("rewrite article: %v", err)
	}

	syncResult, err := markdownSvc.Sync(ctx, ".", interfaces.SyncOptions{
		ImportOptions:  interfaces.ImportOptions{PublishImmediately: true},
		UpdateExisting: true,
	})
	if err != nil {
		t.Fatalf("sync directory: %v", err)
	}
	if syncResult.Updated != 1 {
		t.Fatalf("expected one updated post, got %+v", syncResult)
	}

	post, err := module.Posts().GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get post after sync: %v", err)
	}
	if post.IsVisible {
		t.Fatal("expected draft flag in front matter to unpublish the post")
	}

	// Removing the draft file and syncing with orphan cleanup deletes it.
	if err := os.Remove(filepath.Join(contentDir, "work-in-progress.mdx")); err != nil {
		t.Fatalf("remove draft file: %v", err)
	}
	syncResult, err = markdownSvc.Sync(ctx, ".", interfaces.SyncOptions{
		UpdateExisting: true,
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("sync after removal: %v", err)
	}
	if syncResult.Deleted != 1 {
		t.Fatalf("expected one orphan deletion, got %+v", syncResult)
	}
}
