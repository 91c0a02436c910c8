package posts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPostRepository implements PostRepository with optional caching.
type BunPostRepository struct {
	repo repository.Repository[*Post]
}

func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunPostRepository{repo: wrapped}
}

func (r *BunPostRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPostRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"slug",
			"title",
			"summary",
			"layout",
			"author",
			"body",
			"body_html",
			"status",
			"date",
			"publish_at",
			"unpublish_at",
			"published_at",
			"source_path",
			"checksum",
			"current_version",
			"metadata",
			"updated_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return result, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return result, nil
}

func (r *BunPostRepository) List(ctx context.Context) ([]*Post, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Post{ID: id})
}

// BunTagRepository implements TagRepository with optional caching.
type BunTagRepository struct {
	repo repository.Repository[*Tag]
}

func NewBunTagRepository(db *bun.DB) *BunTagRepository {
	return NewBunTagRepositoryWithCache(db, nil, nil)
}

func NewBunTagRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTagRepository {
	base := NewTagRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunTagRepository{repo: wrapped}
}

func (r *BunTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunTagRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "tag", slug)
	}
	return result, nil
}

func (r *BunTagRepository) List(ctx context.Context) ([]*Tag, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// BunPostTagRepository maintains join rows with plain bun queries; the rows
// carry no identity beyond the composite key so the generic repository does
// not fit here.
type BunPostTagRepository struct {
	db *bun.DB
}

func NewBunPostTagRepository(db *bun.DB) *BunPostTagRepository {
	return &BunPostTagRepository{db: db}
}

func (r *BunPostTagRepository) Replace(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := r.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]*PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &PostTag{PostID: postID, TagID: tagID})
	}
	if _, err := r.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("post_tags insert: %w", err)
	}
	return nil
}

func (r *BunPostTagRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostTag, error) {
	var rows []*PostTag
	err := r.db.NewSelect().
		Model(&rows).
		Where("post_id = ?", postID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("post_tags select: %w", err)
	}
	return rows, nil
}

func (r *BunPostTagRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*PostTag)(nil)).
		Where("post_id = ?", postID).
		Exec(ctx); err != nil {
		return fmt.Errorf("post_tags delete: %w", err)
	}
	return nil
}

// BunRevisionRepository implements RevisionRepository.
type BunRevisionRepository struct {
	repo repository.Repository[*PostRevision]
	db   *bun.DB
}

func NewBunRevisionRepository(db *bun.DB) *BunRevisionRepository {
	return &BunRevisionRepository{repo: NewRevisionRepository(db), db: db}
}

func (r *BunRevisionRepository) Create(ctx context.Context, record *PostRevision) (*PostRevision, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRevisionRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostRevision, error) {
	var rows []*PostRevision
	err := r.db.NewSelect().
		Model(&rows).
		Where("post_id = ?", postID).
		Order("version ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("post_revisions select: %w", err)
	}
	return rows, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
