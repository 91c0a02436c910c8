package posts

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired        = errors.New("posts: title is required")
	ErrBodyRequired         = errors.New("posts: body is required")
	ErrSlugRequired         = errors.New("posts: slug is required")
	ErrSlugInvalid          = errors.New("posts: slug contains invalid characters")
	ErrSlugExists           = errors.New("posts: slug already exists")
	ErrPostIDRequired       = errors.New("posts: post id required")
	ErrStatusInvalid        = errors.New("posts: status invalid")
	ErrStatusTransition     = errors.New("posts: status transition invalid")
	ErrScheduleWindow       = errors.New("posts: publish_at must be before unpublish_at")
	ErrScheduleTimeRequired = errors.New("posts: publish_at is required to schedule")
	ErrRevisionConflict     = errors.New("posts: base version mismatch")
)

// NotFoundError reports a missing record along with the lookup key used.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "posts: not found"
	}
	return fmt.Sprintf("posts: %s not found: %s", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
