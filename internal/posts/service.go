package posts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/domain"
	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	pressposts "github.com/goliatone/go-press/posts"
)

// Service exposes the post lifecycle operations backed by the configured
// repositories.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	Publish(ctx context.Context, req PublishPostRequest) (*Post, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*Post, error)
	Archive(ctx context.Context, id uuid.UUID) (*Post, error)
	Schedule(ctx context.Context, req SchedulePostRequest) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Revisions(ctx context.Context, id uuid.UUID) ([]*PostRevision, error)
	Tags(ctx context.Context) ([]*Tag, error)
}

// ServiceConfig wires repositories and feature toggles into the service.
type ServiceConfig struct {
	Posts     PostRepository
	Tags      TagRepository
	PostTags  PostTagRepository
	Revisions RevisionRepository

	// CaptureRevisions records an immutable snapshot on every mutation.
	CaptureRevisions bool
	// AllowScheduling enables the Schedule operation and publish windows.
	AllowScheduling bool

	Logger interfaces.Logger
	Now    func() time.Time
}

// CreatePostRequest carries the fields accepted when creating a post.
type CreatePostRequest struct {
	Slug        string
	Title       string
	Summary     string
	Layout      string
	Author      string
	Body        string
	BodyHTML    string
	Tags        []string
	Status      domain.Status
	Date        time.Time
	PublishAt   *time.Time
	UnpublishAt *time.Time
	SourcePath  string
	Checksum    string
	Metadata    map[string]any
}

// Validate applies structural checks before the service touches storage.
func (req CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required.Error(ErrTitleRequired.Error())),
		validation.Field(&req.Body, validation.Required.Error(ErrBodyRequired.Error())),
	)
}

// UpdatePostRequest carries partial updates addressed by post ID. Nil fields
// keep their stored values.
type UpdatePostRequest struct {
	ID          uuid.UUID
	Title       *string
	Summary     *string
	Layout      *string
	Author      *string
	Body        *string
	BodyHTML    *string
	Tags        []string
	Date        *time.Time
	PublishAt   *time.Time
	UnpublishAt *time.Time
	Checksum    *string
	Metadata    map[string]any
	// BaseVersion guards against concurrent edits when non-zero.
	BaseVersion int
}

// PublishPostRequest promotes a post to the published state.
type PublishPostRequest struct {
	ID uuid.UUID
	// At overrides the publication timestamp; zero means now.
	At time.Time
}

// SchedulePostRequest queues a post for publication inside a window.
type SchedulePostRequest struct {
	ID          uuid.UUID
	PublishAt   time.Time
	UnpublishAt *time.Time
}

// ListOptions filters and pages post listings.
type ListOptions struct {
	Status      *domain.Status
	Tag         string
	VisibleOnly bool
	Limit       int
	Offset      int
}

type service struct {
	posts     PostRepository
	tags      TagRepository
	postTags  PostTagRepository
	revisions RevisionRepository

	captureRevisions bool
	allowScheduling  bool

	logger interfaces.Logger
	now    func() time.Time
}

// NewService builds the post service. Missing repositories fall back to
// in-memory implementations so embedded hosts can run without a database.
func NewService(cfg ServiceConfig) Service {
	if cfg.Posts == nil {
		cfg.Posts = NewMemoryPostRepository()
	}
	if cfg.Tags == nil {
		cfg.Tags = NewMemoryTagRepository()
	}
	if cfg.PostTags == nil {
		cfg.PostTags = NewMemoryPostTagRepository()
	}
	if cfg.Revisions == nil {
		cfg.Revisions = NewMemoryRevisionRepository()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOp()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{
		posts:            cfg.Posts,
		tags:             cfg.Tags,
		postTags:         cfg.PostTags,
		revisions:        cfg.Revisions,
		captureRevisions: cfg.CaptureRevisions,
		allowScheduling:  cfg.AllowScheduling,
		logger:           cfg.Logger,
		now:              cfg.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.posts.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugExists, slug)
	} else if err != nil && !pressposts.IsNotFound(err) {
		return nil, err
	}

	status := domain.NormalizeStatus(string(req.Status))
	if !domain.IsKnownStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrStatusInvalid, status)
	}
	if err := validateWindow(req.PublishAt, req.UnpublishAt); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	record := &Post{
		ID:             identity.PostUUID(slug),
		Slug:           slug,
		Title:          strings.TrimSpace(req.Title),
		Summary:        optionalString(req.Summary),
		Layout:         defaultLayout(req.Layout),
		Author:         optionalString(req.Author),
		Body:           req.Body,
		BodyHTML:       req.BodyHTML,
		Status:         status,
		Date:           date,
		PublishAt:      req.PublishAt,
		UnpublishAt:    req.UnpublishAt,
		SourcePath:     optionalString(req.SourcePath),
		Checksum:       optionalString(req.Checksum),
		CurrentVersion: 1,
		Metadata:       req.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == domain.StatusPublished {
		publishedAt := date
		record.PublishedAt = &publishedAt
	}

	created, err := s.posts.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, created, req.Tags); err != nil {
		return nil, err
	}
	if err := s.captureRevision(ctx, created, req.Tags); err != nil {
		return nil, err
	}

	s.logger.Info("post.created", "slug", created.Slug, "status", string(created.Status))
	return s.decorate(created), nil
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	record, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.BaseVersion != 0 && req.BaseVersion != record.CurrentVersion {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrRevisionConflict, req.BaseVersion, record.CurrentVersion)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		record.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		record.Summary = optionalString(*req.Summary)
	}
	if req.Layout != nil {
		record.Layout = defaultLayout(*req.Layout)
	}
	if req.Author != nil {
		record.Author = optionalString(*req.Author)
	}
	if req.Body != nil {
		if *req.Body == "" {
			return nil, ErrBodyRequired
		}
		record.Body = *req.Body
	}
	if req.BodyHTML != nil {
		record.BodyHTML = *req.BodyHTML
	}
	if req.Date != nil {
		record.Date = *req.Date
	}
	if req.PublishAt != nil {
		record.PublishAt = req.PublishAt
	}
	if req.UnpublishAt != nil {
		record.UnpublishAt = req.UnpublishAt
	}
	if err := validateWindow(record.PublishAt, record.UnpublishAt); err != nil {
		return nil, err
	}
	if req.Checksum != nil {
		record.Checksum = optionalString(*req.Checksum)
	}
	if req.Metadata != nil {
		record.Metadata = req.Metadata
	}

	record.CurrentVersion++
	record.UpdatedAt = s.now().UTC()

	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.applyTags(ctx, updated, req.Tags); err != nil {
			return nil, err
		}
	} else if err := s.loadTags(ctx, updated); err != nil {
		return nil, err
	}
	if err := s.captureRevision(ctx, updated, tagSlugs(updated.Tags)); err != nil {
		return nil, err
	}

	s.logger.Info("post.updated", "slug", updated.Slug, "version", updated.CurrentVersion)
	return s.decorate(updated), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	record, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, record); err != nil {
		return nil, err
	}
	return s.decorate(record), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrSlugRequired
	}
	record, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, record); err != nil {
		return nil, err
	}
	return s.decorate(record), nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	records, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	filtered := make([]*Post, 0, len(records))
	for _, record := range records {
		if record.DeletedAt != nil {
			continue
		}
		if err := s.loadTags(ctx, record); err != nil {
			return nil, err
		}
		s.decorateAt(record, now)
		if opts.Status != nil && record.Status != *opts.Status {
			continue
		}
		if opts.VisibleOnly && !record.IsVisible {
			continue
		}
		if opts.Tag != "" && !hasTag(record, opts.Tag) {
			continue
		}
		filtered = append(filtered, record)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Slug < filtered[j].Slug
		}
		return filtered[i].Date.After(filtered[j].Date)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(filtered) {
			return []*Post{}, nil
		}
		filtered = filtered[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered, nil
}

func (s *service) Publish(ctx context.Context, req PublishPostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	record, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.StatusArchived {
		return nil, fmt.Errorf("%w: archived posts must be restored first", ErrStatusTransition)
	}

	at := req.At
	if at.IsZero() {
		at = s.now().UTC()
	}
	record.Status = domain.StatusPublished
	record.PublishedAt = &at
	record.PublishAt = nil
	record.UpdatedAt = s.now().UTC()

	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("post.published", "slug", updated.Slug)
	return s.decorate(updated), nil
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.transition(ctx, id, domain.StatusDraft, "post.unpublished")
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.transition(ctx, id, domain.StatusArchived, "post.archived")
}

func (s *service) Schedule(ctx context.Context, req SchedulePostRequest) (*Post, error) {
	if !s.allowScheduling {
		return nil, fmt.Errorf("%w: scheduling disabled", ErrStatusTransition)
	}
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	if req.PublishAt.IsZero() {
		return nil, ErrScheduleTimeRequired
	}
	if err := validateWindow(&req.PublishAt, req.UnpublishAt); err != nil {
		return nil, err
	}

	record, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	record.Status = domain.StatusScheduled
	record.PublishAt = &req.PublishAt
	record.UnpublishAt = req.UnpublishAt
	record.UpdatedAt = s.now().UTC()

	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("post.scheduled", "slug", updated.Slug, "publish_at", req.PublishAt)
	return s.decorate(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPostIDRequired
	}
	record, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postTags.DeleteByPost(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post.deleted", "slug", record.Slug)
	return nil
}

func (s *service) Revisions(ctx context.Context, id uuid.UUID) ([]*PostRevision, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	return s.revisions.ListByPost(ctx, id)
}

func (s *service) Tags(ctx context.Context) ([]*Tag, error) {
	return s.tags.List(ctx)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, status domain.Status, event string) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	record, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Status = status
	if status != domain.StatusPublished {
		record.PublishedAt = nil
	}
	record.UpdatedAt = s.now().UTC()

	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info(event, "slug", updated.Slug)
	return s.decorate(updated), nil
}

func (s *service) resolveSlug(explicit, title string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = title
	}
	normalized, err := pressposts.NormalizeSlug(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSlugInvalid, err)
	}
	if normalized == "" {
		return "", ErrSlugRequired
	}
	if !pressposts.IsValidSlug(normalized) {
		return "", fmt.Errorf("%w: %s", ErrSlugInvalid, normalized)
	}
	return normalized, nil
}

func (s *service) applyTags(ctx context.Context, record *Post, names []string) error {
	tagIDs := make([]uuid.UUID, 0, len(names))
	resolved := make([]*Tag, 0, len(names))
	seen := map[string]struct{}{}

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		tagSlug, err := pressposts.NormalizeSlug(trimmed)
		if err != nil || tagSlug == "" {
			continue
		}
		if _, ok := seen[tagSlug]; ok {
			continue
		}
		seen[tagSlug] = struct{}{}

		tag, err := s.tags.GetBySlug(ctx, tagSlug)
		if err != nil {
			if !pressposts.IsNotFound(err) {
				return err
			}
			tag, err = s.tags.Create(ctx, &Tag{
				ID:        identity.TagUUID(tagSlug),
				Slug:      tagSlug,
				Name:      trimmed,
				CreatedAt: s.now().UTC(),
			})
			if err != nil {
				return err
			}
		}
		tagIDs = append(tagIDs, tag.ID)
		resolved = append(resolved, tag)
	}

	if err := s.postTags.Replace(ctx, record.ID, tagIDs); err != nil {
		return err
	}
	record.Tags = resolved
	return nil
}

func (s *service) loadTags(ctx context.Context, record *Post) error {
	rows, err := s.postTags.ListByPost(ctx, record.ID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		record.Tags = nil
		return nil
	}

	all, err := s.tags.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*Tag, len(all))
	for _, tag := range all {
		byID[tag.ID] = tag
	}

	resolved := make([]*Tag, 0, len(rows))
	for _, row := range rows {
		if tag, ok := byID[row.TagID]; ok {
			resolved = append(resolved, tag)
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Slug < resolved[j].Slug
	})
	record.Tags = resolved
	return nil
}

func (s *service) captureRevision(ctx context.Context, record *Post, tags []string) error {
	if !s.captureRevisions {
		return nil
	}
	revision := &PostRevision{
		ID:      identity.RevisionUUID(record.ID, record.CurrentVersion),
		PostID:  record.ID,
		Version: record.CurrentVersion,
		Status:  record.Status,
		Snapshot: PostRevisionSnapshot{
			Title:    record.Title,
			Summary:  record.Summary,
			Layout:   record.Layout,
			Author:   record.Author,
			Body:     record.Body,
			Tags:     append([]string(nil), tags...),
			Metadata: record.Metadata,
		},
		CreatedAt: s.now().UTC(),
	}
	_, err := s.revisions.Create(ctx, revision)
	return err
}

func (s *service) decorate(record *Post) *Post {
	s.decorateAt(record, s.now().UTC())
	return record
}

func (s *service) decorateAt(record *Post, now time.Time) {
	record.EffectiveStatus = domain.EffectiveStatus(record.Status, record.PublishAt, record.UnpublishAt, now)
	record.IsVisible = record.EffectiveStatus == domain.StatusPublished
}

func validateWindow(publishAt, unpublishAt *time.Time) error {
	if publishAt == nil || unpublishAt == nil {
		return nil
	}
	if !publishAt.Before(*unpublishAt) {
		return ErrScheduleWindow
	}
	return nil
}

func defaultLayout(layout string) string {
	trimmed := strings.TrimSpace(layout)
	if trimmed == "" {
		return "post"
	}
	return trimmed
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func tagSlugs(tags []*Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.Slug)
	}
	return out
}

func hasTag(record *Post, slug string) bool {
	for _, tag := range record.Tags {
		if strings.EqualFold(tag.Slug, slug) {
			return true
		}
	}
	return false
}
