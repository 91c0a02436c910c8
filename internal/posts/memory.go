package posts

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryPostRepository keeps posts in process memory. It backs tests and
// hosts that embed the module without a database.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Post
	bySlug map[string]uuid.UUID
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		byID:   map[uuid.UUID]*Post{},
		bySlug: map[string]uuid.UUID{},
	}
}

func (r *MemoryPostRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := clonePost(record)
	r.byID[clone.ID] = clone
	r.bySlug[clone.Slug] = clone.ID
	return clonePost(clone), nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(r.bySlug, existing.Slug)
	}
	clone := clonePost(record)
	r.byID[clone.ID] = clone
	r.bySlug[clone.Slug] = clone.ID
	return clonePost(clone), nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (r *MemoryPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(r.byID[id]), nil
}

func (r *MemoryPostRepository) List(ctx context.Context) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*Post, 0, len(r.byID))
	for _, record := range r.byID {
		records = append(records, clonePost(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Slug < records[j].Slug
	})
	return records, nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.byID[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(r.bySlug, record.Slug)
	delete(r.byID, id)
	return nil
}

// MemoryTagRepository keeps tags in process memory.
type MemoryTagRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Tag
	bySlug map[string]uuid.UUID
}

func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{
		byID:   map[uuid.UUID]*Tag{},
		bySlug: map[string]uuid.UUID{},
	}
}

func (r *MemoryTagRepository) Create(ctx context.Context, record *Tag) (*Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.byID[clone.ID] = &clone
	r.bySlug[clone.Slug] = clone.ID
	copied := clone
	return &copied, nil
}

func (r *MemoryTagRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "tag", Key: slug}
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *MemoryTagRepository) List(ctx context.Context) ([]*Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*Tag, 0, len(r.byID))
	for _, record := range r.byID {
		clone := *record
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Slug < records[j].Slug
	})
	return records, nil
}

// MemoryPostTagRepository keeps join rows in process memory.
type MemoryPostTagRepository struct {
	mu     sync.RWMutex
	byPost map[uuid.UUID][]uuid.UUID
}

func NewMemoryPostTagRepository() *MemoryPostTagRepository {
	return &MemoryPostTagRepository{byPost: map[uuid.UUID][]uuid.UUID{}}
}

func (r *MemoryPostTagRepository) Replace(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPost[postID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

func (r *MemoryPostTagRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostTag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]*PostTag, 0, len(r.byPost[postID]))
	for _, tagID := range r.byPost[postID] {
		rows = append(rows, &PostTag{PostID: postID, TagID: tagID})
	}
	return rows, nil
}

func (r *MemoryPostTagRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPost, postID)
	return nil
}

// MemoryRevisionRepository keeps revision snapshots in process memory.
type MemoryRevisionRepository struct {
	mu     sync.RWMutex
	byPost map[uuid.UUID][]*PostRevision
}

func NewMemoryRevisionRepository() *MemoryRevisionRepository {
	return &MemoryRevisionRepository{byPost: map[uuid.UUID][]*PostRevision{}}
}

func (r *MemoryRevisionRepository) Create(ctx context.Context, record *PostRevision) (*PostRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.byPost[record.PostID] = append(r.byPost[record.PostID], &clone)
	copied := clone
	return &copied, nil
}

func (r *MemoryRevisionRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*PostRevision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]*PostRevision, 0, len(r.byPost[postID]))
	for _, record := range r.byPost[postID] {
		clone := *record
		rows = append(rows, &clone)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Version < rows[j].Version
	})
	return rows, nil
}

func clonePost(record *Post) *Post {
	if record == nil {
		return nil
	}
	clone := *record
	if record.Tags != nil {
		clone.Tags = make([]*Tag, len(record.Tags))
		for i, tag := range record.Tags {
			copied := *tag
			clone.Tags[i] = &copied
		}
	}
	if record.Metadata != nil {
		clone.Metadata = make(map[string]any, len(record.Metadata))
		for k, v := range record.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
