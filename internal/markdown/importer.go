package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-press/internal/domain"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
	pressposts "github.com/goliatone/go-press/posts"
)

var (
	ErrPostServiceRequired = errors.New("markdown importer: post service is required")
	ErrSlugMissing         = errors.New("markdown importer: document slug could not be determined")
)

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Posts  posts.Service
	Logger interfaces.Logger
}

// Importer converts parsed documents into post records, creating new posts,
// updating changed ones, and skipping unchanged files by checksum.
type Importer struct {
	posts  posts.Service
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		posts:  cfg.Posts,
		logger: logger,
	}
}

// ImportDocument imports a single document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, true, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports a slice of documents in stable path order.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	for _, doc := range sortDocuments(docs) {
		if err := i.applyDocument(ctx, doc, opts, true, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes posts
// whose source files are gone.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range sortDocuments(docs) {
		slug, err := documentSlug(doc)
		if err != nil {
			acc.addError(err)
			continue
		}
		seen[slug] = struct{}{}
		if err := i.applyDocument(ctx, doc, opts.ImportOptions, opts.UpdateExisting, acc); err != nil {
			acc.addError(err)
		}
	}

	deleted := 0
	if opts.DeleteOrphaned {
		var err error
		deleted, err = i.deleteOrphaned(ctx, seen, opts)
		if err != nil {
			acc.addError(err)
		}
	}

	imported := acc.result()
	return &interfaces.SyncResult{
		Created: len(imported.CreatedSlugs),
		Updated: len(imported.UpdatedSlugs),
		Deleted: deleted,
		Skipped: len(imported.SkippedSlugs),
		Errors:  imported.Errors,
	}, firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, updateExisting bool, acc *importAccumulator) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}
	slug, err := documentSlug(doc)
	if err != nil {
		return err
	}

	checksum := hex.EncodeToString(doc.Checksum)
	author := strings.TrimSpace(opts.Author)
	if author == "" {
		author = doc.FrontMatter.Author
	}

	existing, err := i.posts.GetBySlug(ctx, slug)
	if err != nil && !pressposts.IsNotFound(err) {
		return fmt.Errorf("markdown importer: post lookup %s: %w", slug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.created = append(acc.created, slug)
			return nil
		}
		created, createErr := i.posts.Create(ctx, posts.CreatePostRequest{
			Slug:       slug,
			Title:      documentTitle(doc, slug),
			Summary:    doc.FrontMatter.Summary,
			Layout:     doc.FrontMatter.Layout,
			Author:     author,
			Body:       string(doc.Body),
			BodyHTML:   string(doc.BodyHTML),
			Tags:       doc.FrontMatter.Tags,
			Status:     selectStatus(doc, opts),
			Date:       doc.FrontMatter.Date,
			SourcePath: doc.FilePath,
			Checksum:   checksum,
			Metadata:   doc.FrontMatter.Custom,
		})
		if createErr != nil {
			return fmt.Errorf("markdown importer: create post %s: %w", slug, createErr)
		}
		i.logger.Info("markdown import created", "slug", created.Slug, "path", doc.FilePath)
		acc.created = append(acc.created, created.Slug)
		return nil
	}

	if existing.Checksum != nil && *existing.Checksum == checksum {
		acc.skipped = append(acc.skipped, slug)
		return nil
	}
	if !updateExisting || opts.DryRun {
		acc.skipped = append(acc.skipped, slug)
		return nil
	}

	title := documentTitle(doc, slug)
	summary := doc.FrontMatter.Summary
	layout := doc.FrontMatter.Layout
	body := string(doc.Body)
	bodyHTML := string(doc.BodyHTML)
	date := doc.FrontMatter.Date
	req := posts.UpdatePostRequest{
		ID:       existing.ID,
		Title:    &title,
		Summary:  &summary,
		Layout:   &layout,
		Body:     &body,
		BodyHTML: &bodyHTML,
		Tags:     doc.FrontMatter.Tags,
		Checksum: &checksum,
		Metadata: doc.FrontMatter.Custom,
	}
	if author != "" {
		req.Author = &author
	}
	if !date.IsZero() {
		req.Date = &date
	}

	updated, updateErr := i.posts.Update(ctx, req)
	if updateErr != nil {
		return fmt.Errorf("markdown importer: update post %s: %w", slug, updateErr)
	}

	// Reconcile lifecycle when the draft flag moved since the last import.
	switch {
	case doc.FrontMatter.Draft && updated.Status == domain.StatusPublished:
		if _, err := i.posts.Unpublish(ctx, updated.ID); err != nil {
			return fmt.Errorf("markdown importer: unpublish post %s: %w", slug, err)
		}
	case !doc.FrontMatter.Draft && opts.PublishImmediately && updated.Status == domain.StatusDraft:
		if _, err := i.posts.Publish(ctx, posts.PublishPostRequest{ID: updated.ID}); err != nil {
			return fmt.Errorf("markdown importer: publish post %s: %w", slug, err)
		}
	}

	i.logger.Info("markdown import updated", "slug", updated.Slug, "path", doc.FilePath)
	acc.updated = append(acc.updated, updated.Slug)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, seen map[string]struct{}, opts interfaces.SyncOptions) (int, error) {
	records, err := i.posts.List(ctx, posts.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("markdown importer: list posts: %w", err)
	}

	deleted := 0
	for _, record := range records {
		// Only posts that came from files are candidates for orphan cleanup.
		if record.SourcePath == nil {
			continue
		}
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			deleted++
			continue
		}
		if err := i.posts.Delete(ctx, record.ID); err != nil {
			return deleted, fmt.Errorf("markdown importer: delete post %s: %w", record.Slug, err)
		}
		i.logger.Info("markdown import deleted orphan", "slug", record.Slug)
		deleted++
	}
	return deleted, nil
}

// documentSlug resolves a document's slug from front matter, falling back to
// the file name stem.
func documentSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", ErrSlugMissing
	}
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := path.Base(filepathToSlash(doc.FilePath))
		candidate = strings.TrimSuffix(base, path.Ext(base))
	}
	normalized, err := pressposts.NormalizeSlug(candidate)
	if err != nil || normalized == "" {
		return "", ErrSlugMissing
	}
	return normalized, nil
}

func documentTitle(doc *interfaces.Document, slug string) string {
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title != "" {
		return title
	}
	return fallbackTitle(slug)
}

func fallbackTitle(slug string) string {
	if slug == "" {
		return "Untitled"
	}
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func selectStatus(doc *interfaces.Document, opts interfaces.ImportOptions) domain.Status {
	if doc.FrontMatter.Draft {
		return domain.StatusDraft
	}
	if opts.PublishImmediately {
		return domain.StatusPublished
	}
	return domain.StatusDraft
}

func sortDocuments(docs []*interfaces.Document) []*interfaces.Document {
	sorted := append([]*interfaces.Document(nil), docs...)
	slices.SortFunc(sorted, func(a, b *interfaces.Document) int {
		if a == nil || b == nil {
			return 0
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return sorted
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

type importAccumulator struct {
	created []string
	updated []string
	skipped []string
	errors  []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		created: []string{},
		updated: []string{},
		skipped: []string{},
		errors:  []error{},
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedSlugs: a.created,
		UpdatedSlugs: a.updated,
		SkippedSlugs: a.skipped,
		Errors:       a.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
