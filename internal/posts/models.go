package posts

import pressposts "github.com/goliatone/go-press/posts"

type (
	Post                 = pressposts.Post
	Tag                  = pressposts.Tag
	PostTag              = pressposts.PostTag
	PostRevision         = pressposts.PostRevision
	PostRevisionSnapshot = pressposts.PostRevisionSnapshot
	NotFoundError        = pressposts.NotFoundError
)

var (
	ErrTitleRequired        = pressposts.ErrTitleRequired
	ErrBodyRequired         = pressposts.ErrBodyRequired
	ErrSlugRequired         = pressposts.ErrSlugRequired
	ErrSlugInvalid          = pressposts.ErrSlugInvalid
	ErrSlugExists           = pressposts.ErrSlugExists
	ErrPostIDRequired       = pressposts.ErrPostIDRequired
	ErrStatusInvalid        = pressposts.ErrStatusInvalid
	ErrStatusTransition     = pressposts.ErrStatusTransition
	ErrScheduleWindow       = pressposts.ErrScheduleWindow
	ErrScheduleTimeRequired = pressposts.ErrScheduleTimeRequired
	ErrRevisionConflict     = pressposts.ErrRevisionConflict
)
