package postscmd

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	publishPostMessageType   = "press.posts.publish"
	unpublishPostMessageType = "press.posts.unpublish"
	archivePostMessageType   = "press.posts.archive"
	schedulePostMessageType  = "press.posts.schedule"
)

// PublishPostCommand requests immediate publication of a post.
type PublishPostCommand struct {
	PostID uuid.UUID `json:"post_id"`
	// At overrides the publication timestamp; zero means now.
	At time.Time `json:"at,omitempty"`
}

// Type implements command.Message.
func (PublishPostCommand) Type() string { return publishPostMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishPostCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("press.posts.publish.post_id_required", "post_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnpublishPostCommand reverts a post to draft, removing it from public listings.
type UnpublishPostCommand struct {
	PostID uuid.UUID `json:"post_id"`
}

// Type implements command.Message.
func (UnpublishPostCommand) Type() string { return unpublishPostMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UnpublishPostCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("press.posts.unpublish.post_id_required", "post_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ArchivePostCommand retires a post from the publication lifecycle.
type ArchivePostCommand struct {
	PostID uuid.UUID `json:"post_id"`
}

// Type implements command.Message.
func (ArchivePostCommand) Type() string { return archivePostMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ArchivePostCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("press.posts.archive.post_id_required", "post_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SchedulePostCommand queues a post for publication inside a time window.
type SchedulePostCommand struct {
	PostID      uuid.UUID  `json:"post_id"`
	PublishAt   time.Time  `json:"publish_at"`
	UnpublishAt *time.Time `json:"unpublish_at,omitempty"`
}

// Type implements command.Message.
func (SchedulePostCommand) Type() string { return schedulePostMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m SchedulePostCommand) Validate() error {
	errs := validation.Errors{}
	if m.PostID == uuid.Nil {
		errs["post_id"] = validation.NewError("press.posts.schedule.post_id_required", "post_id is required")
	}
	if m.PublishAt.IsZero() {
		errs["publish_at"] = validation.NewError("press.posts.schedule.publish_at_required", "publish_at is required")
	}
	if m.UnpublishAt != nil && !m.PublishAt.IsZero() && !m.PublishAt.Before(*m.UnpublishAt) {
		errs["unpublish_at"] = validation.NewError("press.posts.schedule.window_invalid", "unpublish_at must be after publish_at")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
