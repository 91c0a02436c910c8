package domain

import internaldomain "github.com/goliatone/go-press/internal/domain"

// Status represents lifecycle states for press entities.
type Status = internaldomain.Status

const (
	// StatusDraft indicates a post still under preparation.
	StatusDraft = internaldomain.StatusDraft
	// StatusPublished identifies a post available to readers.
	StatusPublished = internaldomain.StatusPublished
	// StatusArchived marks a post retained for history but not publicly visible.
	StatusArchived = internaldomain.StatusArchived
	// StatusScheduled marks a post that has a future publish time configured.
	StatusScheduled = internaldomain.StatusScheduled
)
