package domain

import (
	"strings"
	"time"
)

// Status represents lifecycle states for press entities
type Status string

const (
	// StatusDraft indicates a post still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies a post available to readers
	StatusPublished Status = "published"
	// StatusArchived marks a post retained for history but not publicly visible
	StatusArchived Status = "archived"
	// StatusScheduled marks a post that has a future publish time configured
	StatusScheduled Status = "scheduled"
)

// NormalizeStatus coerces arbitrary status strings into a known lifecycle state.
func NormalizeStatus(input string) Status {
	if strings.TrimSpace(input) == "" {
		return StatusDraft
	}
	return Status(strings.ToLower(strings.TrimSpace(input)))
}

// IsKnownStatus reports whether the value matches one of the lifecycle states.
func IsKnownStatus(status Status) bool {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived, StatusScheduled:
		return true
	default:
		return false
	}
}

// EffectiveStatus resolves the status a post presents at the given instant,
// accounting for publish and unpublish windows. A published post outside its
// window reports scheduled (before publish_at) or archived (after unpublish_at).
func EffectiveStatus(status Status, publishAt, unpublishAt *time.Time, now time.Time) Status {
	switch status {
	case StatusPublished, StatusScheduled:
	default:
		return status
	}

	if publishAt != nil && now.Before(*publishAt) {
		return StatusScheduled
	}
	if unpublishAt != nil && !now.Before(*unpublishAt) {
		return StatusArchived
	}
	if status == StatusScheduled && publishAt == nil {
		return StatusScheduled
	}
	return StatusPublished
}

// IsVisible reports whether a post with the given lifecycle fields should be
// exposed to readers at the given instant.
func IsVisible(status Status, publishAt, unpublishAt *time.Time, now time.Time) bool {
	return EffectiveStatus(status, publishAt, unpublishAt, now) == StatusPublished
}
