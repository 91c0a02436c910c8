package postscmd

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/posts"
)

func newLifecycleFixture(t *testing.T) (posts.Service, uuid.UUID) {
	t.Helper()
	svc := posts.NewService(posts.ServiceConfig{
		AllowScheduling: true,
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	created, err := svc.Create(context.Background(), posts.CreatePostRequest{
		Title: "Lifecycle Post",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return svc, created.ID
}

func TestPublishPostHandler(t *testing.T) {
	svc, id := newLifecycleFixture(t)
	handler := NewPublishPostHandler(svc, nil)

	if err := handler.Execute(context.Background(), PublishPostCommand{PostID: id}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	record, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !record.IsVisible {
		t.Fatal("expected post to be visible after publish")
	}
}

func TestPublishPostHandlerValidatesID(t *testing.T) {
	svc, _ := newLifecycleFixture(t)
	handler := NewPublishPostHandler(svc, nil)

	err := handler.Execute(context.Background(), PublishPostCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestUnpublishPostHandler(t *testing.T) {
	svc, id := newLifecycleFixture(t)
	if _, err := svc.Publish(context.Background(), posts.PublishPostRequest{ID: id}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	handler := NewUnpublishPostHandler(svc, nil)
	if err := handler.Execute(context.Background(), UnpublishPostCommand{PostID: id}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	record, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.IsVisible {
		t.Fatal("expected post hidden after unpublish")
	}
}

func TestArchivePostHandlerBlocksRepublish(t *testing.T) {
	svc, id := newLifecycleFixture(t)
	archive := NewArchivePostHandler(svc, nil)
	if err := archive.Execute(context.Background(), ArchivePostCommand{PostID: id}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	publish := NewPublishPostHandler(svc, nil)
	err := publish.Execute(context.Background(), PublishPostCommand{PostID: id})
	if err == nil {
		t.Fatal("expected archived post to reject publish")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSchedulePostHandler(t *testing.T) {
	svc, id := newLifecycleFixture(t)
	handler := NewSchedulePostHandler(svc, nil)

	publishAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	if err := handler.Execute(context.Background(), SchedulePostCommand{
		PostID:    id,
		PublishAt: publishAt,
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	record, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.PublishAt == nil || !record.PublishAt.Equal(publishAt) {
		t.Fatalf("expected publish window recorded, got %+v", record.PublishAt)
	}
}

func TestSchedulePostCommandValidatesWindow(t *testing.T) {
	publishAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	before := publishAt.Add(-time.Hour)

	cmd := SchedulePostCommand{
		PostID:      uuid.New(),
		PublishAt:   publishAt,
		UnpublishAt: &before,
	}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected inverted window to fail validation")
	}

	cmd.UnpublishAt = nil
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd.PublishAt = time.Time{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected missing publish_at to fail validation")
	}
}

func TestNewHandlerSet(t *testing.T) {
	svc, _ := newLifecycleFixture(t)
	set := NewHandlerSet(svc, nil)
	if set.Publish == nil || set.Unpublish == nil || set.Archive == nil || set.Schedule == nil {
		t.Fatal("expected all lifecycle handlers")
	}
}
