package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/domain"
	pressposts "github.com/goliatone/go-press/posts"
)

func newTestService(t *testing.T, opts ...func(*ServiceConfig)) Service {
	t.Helper()
	cfg := ServiceConfig{
		CaptureRevisions: true,
		AllowScheduling:  true,
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewService(cfg)
}

func TestServiceCreateDerivesSlug(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreatePostRequest{
		Title: "Hello, World! A First Post",
		Body:  "# Hello\n\nContent.",
		Tags:  []string{"Go", "writing"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.Slug != "hello-world-a-first-post" {
		t.Fatalf("expected derived slug, got %q", created.Slug)
	}
	if created.Status != domain.StatusDraft {
		t.Fatalf("expected draft status, got %q", created.Status)
	}
	if created.Layout != "post" {
		t.Fatalf("expected default layout, got %q", created.Layout)
	}
	if len(created.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(created.Tags))
	}
}

func TestServiceCreateDeterministicID(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Create(context.Background(), CreatePostRequest{
		Title: "Stable Identity",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	other := newTestService(t)
	second, err := other.Create(context.Background(), CreatePostRequest{
		Title: "Stable Identity",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected deterministic ID, got %s vs %s", first.ID, second.ID)
	}
}

func TestServiceCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePostRequest{Title: "Once", Body: "b"}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	_, err := svc.Create(ctx, CreatePostRequest{Title: "Once", Body: "b"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePostRequest{Body: "b"}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := svc.Create(ctx, CreatePostRequest{Title: "t"}); err == nil {
		t.Fatal("expected error for missing body")
	}
	_, err := svc.Create(ctx, CreatePostRequest{
		Title:  "Bad Status",
		Body:   "b",
		Status: domain.Status("bogus"),
	})
	if !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestServiceUpdateBumpsVersionAndSnapshots(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Versioned", Body: "v1"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	body := "v2"
	updated, err := svc.Update(ctx, UpdatePostRequest{ID: created.ID, Body: &body})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.CurrentVersion != 2 {
		t.Fatalf("expected version 2, got %d", updated.CurrentVersion)
	}

	revisions, err := svc.Revisions(ctx, created.ID)
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revisions) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revisions))
	}
	if revisions[0].Snapshot.Body != "v1" || revisions[1].Snapshot.Body != "v2" {
		t.Fatalf("unexpected snapshot bodies: %q, %q", revisions[0].Snapshot.Body, revisions[1].Snapshot.Body)
	}
}

func TestServiceUpdateRevisionConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Guarded", Body: "b"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	title := "Changed"
	_, err = svc.Update(ctx, UpdatePostRequest{ID: created.ID, Title: &title, BaseVersion: 99})
	if !errors.Is(err, ErrRevisionConflict) {
		t.Fatalf("expected ErrRevisionConflict, got %v", err)
	}
}

func TestServicePublishLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Lifecycle", Body: "b"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	published, err := svc.Publish(ctx, PublishPostRequest{ID: created.ID})
	if err != nil {
		t.Fatalf("publish post: %v", err)
	}
	if published.Status != domain.StatusPublished || !published.IsVisible {
		t.Fatalf("expected visible published post, got status=%q visible=%v", published.Status, published.IsVisible)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected published_at to be set")
	}

	draft, err := svc.Unpublish(ctx, created.ID)
	if err != nil {
		t.Fatalf("unpublish post: %v", err)
	}
	if draft.Status != domain.StatusDraft || draft.IsVisible {
		t.Fatalf("expected hidden draft, got status=%q visible=%v", draft.Status, draft.IsVisible)
	}

	archived, err := svc.Archive(ctx, created.ID)
	if err != nil {
		t.Fatalf("archive post: %v", err)
	}
	if archived.Status != domain.StatusArchived {
		t.Fatalf("expected archived, got %q", archived.Status)
	}

	if _, err := svc.Publish(ctx, PublishPostRequest{ID: created.ID}); !errors.Is(err, ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition for archived post, got %v", err)
	}
}

func TestServiceScheduleWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Scheduled", Body: "b"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	future := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	scheduled, err := svc.Schedule(ctx, SchedulePostRequest{ID: created.ID, PublishAt: future})
	if err != nil {
		t.Fatalf("schedule post: %v", err)
	}
	if scheduled.Status != domain.StatusScheduled {
		t.Fatalf("expected scheduled status, got %q", scheduled.Status)
	}
	if scheduled.IsVisible {
		t.Fatal("scheduled post must not be visible before its window opens")
	}

	past := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	live, err := svc.Schedule(ctx, SchedulePostRequest{ID: created.ID, PublishAt: past})
	if err != nil {
		t.Fatalf("schedule post in the past: %v", err)
	}
	if live.EffectiveStatus != domain.StatusPublished || !live.IsVisible {
		t.Fatalf("expected visible post once window opened, got %q", live.EffectiveStatus)
	}

	if _, err := svc.Schedule(ctx, SchedulePostRequest{ID: created.ID}); !errors.Is(err, ErrScheduleTimeRequired) {
		t.Fatalf("expected ErrScheduleTimeRequired, got %v", err)
	}

	end := future.Add(-time.Hour)
	_, err = svc.Schedule(ctx, SchedulePostRequest{ID: created.ID, PublishAt: future, UnpublishAt: &end})
	if !errors.Is(err, ErrScheduleWindow) {
		t.Fatalf("expected ErrScheduleWindow, got %v", err)
	}
}

func TestServiceSchedulingDisabled(t *testing.T) {
	svc := newTestService(t, func(cfg *ServiceConfig) {
		cfg.AllowScheduling = false
	})
	_, err := svc.Schedule(context.Background(), SchedulePostRequest{
		ID:        uuid.New(),
		PublishAt: time.Now(),
	})
	if !errors.Is(err, ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition when scheduling disabled, got %v", err)
	}
}

func TestServiceListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreatePostRequest{
		Title: "Alpha",
		Body:  "b",
		Tags:  []string{"go"},
		Date:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	if _, err := svc.Publish(ctx, PublishPostRequest{ID: a.ID}); err != nil {
		t.Fatalf("publish alpha: %v", err)
	}
	if _, err := svc.Create(ctx, CreatePostRequest{
		Title: "Beta",
		Body:  "b",
		Tags:  []string{"notes"},
		Date:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create beta: %v", err)
	}

	all, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(all))
	}
	if all[0].Slug != "beta" {
		t.Fatalf("expected newest first, got %q", all[0].Slug)
	}

	visible, err := svc.List(ctx, ListOptions{VisibleOnly: true})
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(visible) != 1 || visible[0].Slug != "alpha" {
		t.Fatalf("expected only alpha visible, got %d posts", len(visible))
	}

	tagged, err := svc.List(ctx, ListOptions{Tag: "go"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "alpha" {
		t.Fatalf("expected alpha for tag go, got %d posts", len(tagged))
	}
}

func TestServiceDeleteRemovesJoinRows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostRequest{Title: "Gone", Body: "b", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !pressposts.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestServiceGetBySlugNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetBySlug(context.Background(), "missing")
	if !pressposts.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var nfe *pressposts.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError type, got %T", err)
	}
}
