package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errStoreRequired    = errors.New("generator: artifact store is required")
	errPostsRequired    = errors.New("generator: post service is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	BaseURL         string
	DefaultLayout   string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int

	Site SiteMetadata
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Slugs limits the build to the named posts; listings still cover the
	// whole site.
	Slugs  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PostsBuilt    int
	PostsSkipped  int
	ListingsBuilt int
	Duration      time.Duration
	Rendered      []RenderedPost
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Posts    posts.Service
	Renderer interfaces.TemplateRenderer
	Store    ArtifactStore
	Routes   *urlkit.RouteManager
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.DefaultLayout) == "" {
		cfg.DefaultLayout = "post"
	}
	if strings.TrimSpace(cfg.Site.BaseURL) == "" {
		cfg.Site.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		paths:  newPathResolver(deps.Routes),
		logger: deps.Logger,
		now:    time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

type service struct {
	cfg    Config
	deps   Dependencies
	paths  *pathResolver
	logger interfaces.Logger
	now    func() time.Time
}

type postJob struct {
	post  *posts.Post
	route string
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Store == nil {
		return nil, errStoreRequired
	}
	if s.deps.Posts == nil {
		return nil, errPostsRequired
	}

	start := s.now()
	generatedAt := start.UTC()

	visible, err := s.deps.Posts.List(ctx, posts.ListOptions{VisibleOnly: true})
	if err != nil {
		return nil, fmt.Errorf("generator: list posts: %w", err)
	}

	result := &BuildResult{DryRun: opts.DryRun}
	var errorsSlice []error

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.deps.Store.RemoveAll(ctx, "."); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !s.cfg.CleanBuild {
		loaded, loadErr := s.loadManifest(ctx)
		if loadErr != nil {
			errorsSlice = append(errorsSlice, loadErr)
		} else if loaded != nil {
			manifest = loaded
		}
	}

	scoped := scopePosts(visible, opts.Slugs)

	jobs := make([]postJob, 0, len(scoped))
	for _, record := range scoped {
		route, routeErr := s.paths.postRoute(record.Slug)
		if routeErr != nil {
			errorsSlice = append(errorsSlice, routeErr)
			continue
		}
		jobs = append(jobs, postJob{post: record, route: route})
	}

	var (
		mu       sync.Mutex
		rendered = make([]RenderedPost, 0, len(jobs))
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PostsSkipped++
			return
		}
		result.PostsBuilt++
		rendered = append(rendered, outcome.page)
	}

	workers := s.effectiveWorkerCount(len(jobs))
	if workers <= 1 || len(jobs) <= 1 {
		for _, job := range jobs {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			collect(s.renderPost(job, manifest, generatedAt))
		}
	} else {
		// The queue is buffered to hold every job so workers that bail out on
		// cancellation never strand a blocked producer.
		queue := make(chan postJob, len(jobs))
		for _, job := range jobs {
			queue <- job
		}
		close(queue)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for job := range queue {
					if ctx.Err() != nil {
						return
					}
					collect(s.renderPost(job, manifest, generatedAt))
				}
			}()
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	sort.Slice(rendered, func(i, j int) bool {
		return rendered[i].Slug < rendered[j].Slug
	})

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = s.now().Sub(start)
		if len(errorsSlice) > 0 {
			result.Errors = errorsSlice
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	for _, page := range rendered {
		if err := s.deps.Store.WriteFile(ctx, page.Output, []byte(page.HTML)); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	// Listings cover every visible post, including ones skipped by the
	// incremental check.
	allPages, pageErrs := s.collectSitePages(visible, rendered, manifest)
	errorsSlice = append(errorsSlice, pageErrs...)

	listings, listErrs := s.writeListings(ctx, visible, generatedAt)
	result.ListingsBuilt = listings
	errorsSlice = append(errorsSlice, listErrs...)

	if s.cfg.GenerateSitemap {
		sitemap := buildSitemap(s.cfg.Site.BaseURL, allPages, generatedAt)
		if err := s.deps.Store.WriteFile(ctx, "sitemap.xml", []byte(sitemap)); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}
	if s.cfg.GenerateRobots {
		robots := buildRobots(s.cfg.Site.BaseURL, s.cfg.GenerateSitemap)
		if err := s.deps.Store.WriteFile(ctx, "robots.txt", []byte(robots)); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}
	if s.cfg.GenerateFeeds {
		feed := buildFeed(s.cfg.Site, allPages, generatedAt)
		if err := s.deps.Store.WriteFile(ctx, "feed.xml", []byte(feed)); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = generatedAt
		keep := make(map[string]struct{}, len(visible))
		for _, record := range visible {
			keep[strings.ToLower(record.Slug)] = struct{}{}
		}
		for _, page := range rendered {
			manifest.setPost(manifestPost{
				Slug:       page.Slug,
				Route:      page.Route,
				Output:     page.Output,
				Layout:     page.Layout,
				Checksum:   page.Checksum,
				RenderedAt: generatedAt,
			})
		}
		manifest.prunePosts(keep)
		if err := s.persistManifest(ctx, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = s.now().Sub(start)
	s.logger.Info("site build complete",
		"posts_built", result.PostsBuilt,
		"posts_skipped", result.PostsSkipped,
		"listings", result.ListingsBuilt,
		"duration", result.Duration.String(),
	)
	if len(errorsSlice) > 0 {
		result.Errors = errorsSlice
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// Clean removes every artifact the generator previously produced.
func (s *service) Clean(ctx context.Context) error {
	if s.deps.Store == nil {
		return errStoreRequired
	}
	return s.deps.Store.RemoveAll(ctx, ".")
}

func (s *service) renderPost(job postJob, manifest *buildManifest, generatedAt time.Time) renderOutcome {
	start := time.Now()
	record := job.post
	output := outputPath(job.route)
	checksum := postContentHash(record)

	diagnostic := RenderDiagnostic{
		Slug:   record.Slug,
		Route:  job.route,
		Layout: s.layoutFor(record),
	}

	if s.cfg.Incremental && manifest.shouldSkipPost(record.Slug, checksum, output) {
		diagnostic.Skipped = true
		diagnostic.Duration = time.Since(start)
		return renderOutcome{diagnostic: diagnostic, skipped: true}
	}

	tags := make([]TagRef, 0, len(record.Tags))
	for _, tag := range record.Tags {
		tagRoute, err := s.paths.tagRoute(tag.Slug)
		if err != nil {
			diagnostic.Err = err
			return renderOutcome{diagnostic: diagnostic, err: err}
		}
		tags = append(tags, TagRef{Name: tag.Name, Slug: tag.Slug, Route: tagRoute})
	}

	context := TemplateContext{
		Site: s.cfg.Site,
		Post: PostContext{
			ID:      record.ID,
			Slug:    record.Slug,
			Title:   record.Title,
			Summary: stringValue(record.Summary),
			Author:  stringValue(record.Author),
			Date:    record.Date,
			Content: templateHTML(record.BodyHTML),
			Tags:    tags,
			Route:   job.route,
		},
		Build:   BuildMetadata{GeneratedAt: generatedAt},
		Helpers: newTemplateHelpers(s.cfg.Site.BaseURL),
	}

	html, err := s.deps.Renderer.Render(diagnostic.Layout, context)
	if err != nil {
		err = fmt.Errorf("generator: render %s: %w", record.Slug, err)
		diagnostic.Err = err
		diagnostic.Duration = time.Since(start)
		return renderOutcome{diagnostic: diagnostic, err: err}
	}

	diagnostic.Duration = time.Since(start)
	return renderOutcome{
		diagnostic: diagnostic,
		page: RenderedPost{
			PostID:       record.ID,
			Slug:         record.Slug,
			Title:        record.Title,
			Summary:      stringValue(record.Summary),
			Layout:       diagnostic.Layout,
			Route:        job.route,
			Output:       output,
			HTML:         string(html),
			Checksum:     checksum,
			PublishedAt:  timeValue(record.PublishedAt, record.Date),
			LastModified: record.UpdatedAt,
			Duration:     diagnostic.Duration,
		},
	}
}

// collectSitePages merges freshly rendered pages with manifest entries for
// posts skipped this run, so sitemaps and feeds always see the full site.
func (s *service) collectSitePages(visible []*posts.Post, rendered []RenderedPost, manifest *buildManifest) ([]RenderedPost, []error) {
	bySlug := make(map[string]RenderedPost, len(rendered))
	for _, page := range rendered {
		bySlug[strings.ToLower(page.Slug)] = page
	}

	var errs []error
	pages := make([]RenderedPost, 0, len(visible))
	for _, record := range visible {
		key := strings.ToLower(record.Slug)
		if page, ok := bySlug[key]; ok {
			pages = append(pages, page)
			continue
		}
		route := ""
		if entry, ok := manifest.lookupPost(record.Slug); ok {
			route = entry.Route
		}
		if route == "" {
			built, err := s.paths.postRoute(record.Slug)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			route = built
		}
		pages = append(pages, RenderedPost{
			PostID:       record.ID,
			Slug:         record.Slug,
			Title:        record.Title,
			Summary:      stringValue(record.Summary),
			Route:        route,
			Output:       outputPath(route),
			PublishedAt:  timeValue(record.PublishedAt, record.Date),
			LastModified: record.UpdatedAt,
		})
	}
	return pages, errs
}

// writeListings renders the home index and one listing per tag.
func (s *service) writeListings(ctx context.Context, visible []*posts.Post, generatedAt time.Time) (int, []error) {
	var errs []error
	built := 0

	entries, byTag, tagNames, err := s.listingData(visible)
	if err != nil {
		return 0, []error{err}
	}

	index := TemplateContext{
		Site:    s.cfg.Site,
		List:    ListContext{Posts: entries},
		Build:   BuildMetadata{GeneratedAt: generatedAt},
		Helpers: newTemplateHelpers(s.cfg.Site.BaseURL),
	}
	if html, renderErr := s.deps.Renderer.Render("list", index); renderErr != nil {
		errs = append(errs, fmt.Errorf("generator: render index: %w", renderErr))
	} else if writeErr := s.deps.Store.WriteFile(ctx, "index.html", html); writeErr != nil {
		errs = append(errs, writeErr)
	} else {
		built++
	}

	tagSlugs := make([]string, 0, len(byTag))
	for slug := range byTag {
		tagSlugs = append(tagSlugs, slug)
	}
	sort.Strings(tagSlugs)

	for _, slug := range tagSlugs {
		route, routeErr := s.paths.tagRoute(slug)
		if routeErr != nil {
			errs = append(errs, routeErr)
			continue
		}
		ref := TagRef{Name: tagNames[slug], Slug: slug, Route: route}
		listing := TemplateContext{
			Site: s.cfg.Site,
			List: ListContext{
				Title: ref.Name,
				Tag:   &ref,
				Posts: byTag[slug],
			},
			Build:   BuildMetadata{GeneratedAt: generatedAt},
			Helpers: newTemplateHelpers(s.cfg.Site.BaseURL),
		}
		html, renderErr := s.deps.Renderer.Render("list", listing)
		if renderErr != nil {
			errs = append(errs, fmt.Errorf("generator: render tag %s: %w", slug, renderErr))
			continue
		}
		if writeErr := s.deps.Store.WriteFile(ctx, outputPath(route), html); writeErr != nil {
			errs = append(errs, writeErr)
			continue
		}
		built++
	}
	return built, errs
}

func (s *service) listingData(visible []*posts.Post) ([]ListEntry, map[string][]ListEntry, map[string]string, error) {
	entries := make([]ListEntry, 0, len(visible))
	byTag := map[string][]ListEntry{}
	tagNames := map[string]string{}

	for _, record := range visible {
		route, err := s.paths.postRoute(record.Slug)
		if err != nil {
			return nil, nil, nil, err
		}
		entry := ListEntry{
			Slug:    record.Slug,
			Title:   record.Title,
			Summary: stringValue(record.Summary),
			Date:    record.Date,
			Route:   route,
		}
		entries = append(entries, entry)
		for _, tag := range record.Tags {
			byTag[tag.Slug] = append(byTag[tag.Slug], entry)
			tagNames[tag.Slug] = tag.Name
		}
	}
	return entries, byTag, tagNames, nil
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	data, err := s.deps.Store.ReadFile(ctx, manifestFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newBuildManifest(), nil
		}
		return nil, fmt.Errorf("generator: load manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) persistManifest(ctx context.Context, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return s.deps.Store.WriteFile(ctx, manifestFileName, data)
}

func (s *service) layoutFor(record *posts.Post) string {
	layout := strings.ToLower(strings.TrimSpace(record.Layout))
	if layout == "" {
		return s.cfg.DefaultLayout
	}
	if renderer, ok := s.deps.Renderer.(*HTMLRenderer); ok {
		if _, known := renderer.templates[layout]; !known {
			return s.cfg.DefaultLayout
		}
	}
	return layout
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func scopePosts(visible []*posts.Post, slugs []string) []*posts.Post {
	if len(slugs) == 0 {
		return visible
	}
	wanted := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		wanted[strings.ToLower(strings.TrimSpace(slug))] = struct{}{}
	}
	scoped := make([]*posts.Post, 0, len(slugs))
	for _, record := range visible {
		if _, ok := wanted[strings.ToLower(record.Slug)]; ok {
			scoped = append(scoped, record)
		}
	}
	return scoped
}

// postContentHash fingerprints the renderable fields so incremental builds
// can detect unchanged posts without re-rendering.
func postContentHash(record *posts.Post) string {
	h := sha256.New()
	write := func(parts ...string) {
		for _, part := range parts {
			h.Write([]byte(part))
			h.Write([]byte{0})
		}
	}
	write(record.Slug, record.Title, stringValue(record.Summary), record.Layout, stringValue(record.Author))
	write(record.Date.UTC().Format(time.RFC3339))
	write(record.BodyHTML)
	for _, tag := range record.Tags {
		write(tag.Slug, tag.Name)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func timeValue(ptr *time.Time, fallback time.Time) time.Time {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
