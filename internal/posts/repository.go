package posts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostRepository persists post records.
type PostRepository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	Update(ctx context.Context, record *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository persists tag records.
type TagRepository interface {
	Create(ctx context.Context, record *Tag) (*Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
}

// PostTagRepository maintains the post/tag join rows.
type PostTagRepository interface {
	Replace(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostTag, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}

// RevisionRepository stores append-only post snapshots.
type RevisionRepository interface {
	Create(ctx context.Context, record *PostRevision) (*PostRevision, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostRevision, error)
}

func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.Slug
		},
	})
}

func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Slug
		},
	})
}

func NewRevisionRepository(db *bun.DB) repository.Repository[*PostRevision] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PostRevision]{
		NewRecord: func() *PostRevision { return &PostRevision{} },
		GetID: func(r *PostRevision) uuid.UUID {
			return r.ID
		},
		SetID: func(r *PostRevision, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *PostRevision) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}
