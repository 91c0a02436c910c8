package posts

import (
	"time"

	"github.com/goliatone/go-press/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the canonical record for an article ingested from a front-mattered
// markdown or MDX file, or created through the service API.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID              uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug            string         `bun:"slug,notnull" json:"slug"`
	Title           string         `bun:"title,notnull" json:"title"`
	Summary         *string        `bun:"summary" json:"summary,omitempty"`
	Layout          string         `bun:"layout,notnull,default:'post'" json:"layout"`
	Author          *string        `bun:"author" json:"author,omitempty"`
	Body            string         `bun:"body,notnull" json:"body"`
	BodyHTML        string         `bun:"body_html" json:"body_html,omitempty"`
	Status          domain.Status  `bun:"status,notnull,default:'draft'" json:"status"`
	Date            time.Time      `bun:"date,nullzero" json:"date"`
	PublishAt       *time.Time     `bun:"publish_at,nullzero" json:"publish_at,omitempty"`
	UnpublishAt     *time.Time     `bun:"unpublish_at,nullzero" json:"unpublish_at,omitempty"`
	PublishedAt     *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	SourcePath      *string        `bun:"source_path" json:"source_path,omitempty"`
	Checksum        *string        `bun:"checksum" json:"checksum,omitempty"`
	CurrentVersion  int            `bun:"current_version,notnull,default:1" json:"current_version"`
	Metadata        map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	DeletedAt       *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
	CreatedAt       time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Tags            []*Tag         `bun:"m2m:post_tags,join:Post=Tag" json:"tags,omitempty"`
	EffectiveStatus domain.Status  `bun:"-" json:"effective_status"`
	IsVisible       bool           `bun:"-" json:"is_visible"`
}

// Tag labels posts with a topic. Tags are shared across posts and addressed
// by slug.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// PostTag joins posts to tags.
type PostTag struct {
	bun.BaseModel `bun:"table:post_tags,alias:pt"`

	PostID uuid.UUID `bun:"post_id,pk,type:uuid" json:"post_id"`
	TagID  uuid.UUID `bun:"tag_id,pk,type:uuid" json:"tag_id"`
	Post   *Post     `bun:"rel:belongs-to,join:post_id=id" json:"post,omitempty"`
	Tag    *Tag      `bun:"rel:belongs-to,join:tag_id=id" json:"tag,omitempty"`
}

// PostRevision captures immutable snapshots of post payloads. Revisions are
// append-only; the newest version number always matches the post's
// CurrentVersion at the time the snapshot was taken.
type PostRevision struct {
	bun.BaseModel `bun:"table:post_revisions,alias:pr"`

	ID        uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	PostID    uuid.UUID            `bun:"post_id,notnull,type:uuid" json:"post_id"`
	Version   int                  `bun:"version,notnull" json:"version"`
	Status    domain.Status        `bun:"status,notnull,default:'draft'" json:"status"`
	Snapshot  PostRevisionSnapshot `bun:"snapshot,type:jsonb,notnull" json:"snapshot"`
	CreatedAt time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	Post      *Post                `bun:"rel:belongs-to,join:post_id=id" json:"post,omitempty"`
}

// PostRevisionSnapshot describes the persisted JSON snapshot for revision history.
type PostRevisionSnapshot struct {
	Title    string         `json:"title"`
	Summary  *string        `json:"summary,omitempty"`
	Layout   string         `json:"layout,omitempty"`
	Author   *string        `json:"author,omitempty"`
	Body     string         `json:"body"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
