package postscmd

import (
	"context"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

var (
	_ command.Commander[PublishPostCommand]   = (*PublishPostHandler)(nil)
	_ command.Commander[UnpublishPostCommand] = (*UnpublishPostHandler)(nil)
	_ command.Commander[ArchivePostCommand]   = (*ArchivePostHandler)(nil)
	_ command.Commander[SchedulePostCommand]  = (*SchedulePostHandler)(nil)
)

// PublishPostHandler publishes posts via the post service using the shared command handler foundation.
type PublishPostHandler struct {
	inner *commands.Handler[PublishPostCommand]
}

// NewPublishPostHandler constructs a handler wired to the provided post service.
func NewPublishPostHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPostCommand]) *PublishPostHandler {
	exec := func(ctx context.Context, msg PublishPostCommand) error {
		_, err := service.Publish(ctx, posts.PublishPostRequest{
			ID: msg.PostID,
			At: msg.At,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishPostCommand]{
		commands.WithLogger[PublishPostCommand](logger),
		commands.WithOperation[PublishPostCommand]("posts.publish"),
		commands.WithMessageFields(func(msg PublishPostCommand) map[string]any {
			fields := map[string]any{"post_id": msg.PostID}
			if !msg.At.IsZero() {
				fields["at"] = msg.At
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishPostCommand].
func (h *PublishPostHandler) Execute(ctx context.Context, msg PublishPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnpublishPostHandler reverts posts to draft using the shared command handler foundation.
type UnpublishPostHandler struct {
	inner *commands.Handler[UnpublishPostCommand]
}

// NewUnpublishPostHandler constructs a handler wired to the provided post service.
func NewUnpublishPostHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishPostCommand]) *UnpublishPostHandler {
	exec := func(ctx context.Context, msg UnpublishPostCommand) error {
		_, err := service.Unpublish(ctx, msg.PostID)
		return err
	}

	handlerOpts := []commands.HandlerOption[UnpublishPostCommand]{
		commands.WithLogger[UnpublishPostCommand](logger),
		commands.WithOperation[UnpublishPostCommand]("posts.unpublish"),
		commands.WithMessageFields(func(msg UnpublishPostCommand) map[string]any {
			return map[string]any{"post_id": msg.PostID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UnpublishPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UnpublishPostCommand].
func (h *UnpublishPostHandler) Execute(ctx context.Context, msg UnpublishPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ArchivePostHandler archives posts using the shared command handler foundation.
type ArchivePostHandler struct {
	inner *commands.Handler[ArchivePostCommand]
}

// NewArchivePostHandler constructs a handler wired to the provided post service.
func NewArchivePostHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ArchivePostCommand]) *ArchivePostHandler {
	exec := func(ctx context.Context, msg ArchivePostCommand) error {
		_, err := service.Archive(ctx, msg.PostID)
		return err
	}

	handlerOpts := []commands.HandlerOption[ArchivePostCommand]{
		commands.WithLogger[ArchivePostCommand](logger),
		commands.WithOperation[ArchivePostCommand]("posts.archive"),
		commands.WithMessageFields(func(msg ArchivePostCommand) map[string]any {
			return map[string]any{"post_id": msg.PostID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ArchivePostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ArchivePostCommand].
func (h *ArchivePostHandler) Execute(ctx context.Context, msg ArchivePostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SchedulePostHandler queues posts for publication using the shared command handler foundation.
type SchedulePostHandler struct {
	inner *commands.Handler[SchedulePostCommand]
}

// NewSchedulePostHandler constructs a handler wired to the provided post service.
func NewSchedulePostHandler(service posts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SchedulePostCommand]) *SchedulePostHandler {
	exec := func(ctx context.Context, msg SchedulePostCommand) error {
		req := posts.SchedulePostRequest{
			ID:        msg.PostID,
			PublishAt: msg.PublishAt,
		}
		if msg.UnpublishAt != nil {
			until := *msg.UnpublishAt
			req.UnpublishAt = &until
		}
		_, err := service.Schedule(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[SchedulePostCommand]{
		commands.WithLogger[SchedulePostCommand](logger),
		commands.WithOperation[SchedulePostCommand]("posts.schedule"),
		commands.WithMessageFields(func(msg SchedulePostCommand) map[string]any {
			fields := map[string]any{
				"post_id":    msg.PostID,
				"publish_at": msg.PublishAt,
			}
			if msg.UnpublishAt != nil {
				fields["unpublish_at"] = *msg.UnpublishAt
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SchedulePostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SchedulePostCommand].
func (h *SchedulePostHandler) Execute(ctx context.Context, msg SchedulePostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// HandlerSet groups the post lifecycle handlers for registration convenience.
type HandlerSet struct {
	Publish   *PublishPostHandler
	Unpublish *UnpublishPostHandler
	Archive   *ArchivePostHandler
	Schedule  *SchedulePostHandler
}

// NewHandlerSet builds the full post lifecycle handler set with a shared logger.
func NewHandlerSet(service posts.Service, provider interfaces.LoggerProvider) *HandlerSet {
	logger := commands.CommandLogger(provider, "posts")
	return &HandlerSet{
		Publish:   NewPublishPostHandler(service, logger),
		Unpublish: NewUnpublishPostHandler(service, logger),
		Archive:   NewArchivePostHandler(service, logger),
		Schedule:  NewSchedulePostHandler(service, logger),
	}
}
