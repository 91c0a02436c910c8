package di

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/lint"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/console"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/posts"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Container wires module dependencies. Memory-backed repositories are the
// default; a storage driver or injected database upgrades them to bun.
type Container struct {
	Config runtimeconfig.Config

	bunDB *bun.DB
	sqlDB *sql.DB

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	postRepo     posts.PostRepository
	tagRepo      posts.TagRepository
	postTagRepo  posts.PostTagRepository
	revisionRepo posts.RevisionRepository

	routeManager *urlkit.RouteManager
	renderer     interfaces.TemplateRenderer
	store        generator.ArtifactStore

	postSvc      posts.Service
	markdownSvc  interfaces.MarkdownService
	linter       interfaces.Linter
	generatorSvc generator.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB injects an existing bun database handle, bypassing driver selection.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB injects a raw database handle, used with the postgres driver where
// connection setup stays in the host application.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the runtime logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithPostService overrides the default post service binding.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// WithMarkdownService overrides the default markdown service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithLinter overrides the default linter binding.
func WithLinter(linter interfaces.Linter) Option {
	return func(c *Container) {
		c.linter = linter
	}
}

// WithGenerator overrides the default generator binding.
func WithGenerator(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithTemplateRenderer overrides the generator's template renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithArtifactStore overrides the generator's artifact store.
func WithArtifactStore(store generator.ArtifactStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		postRepo:     posts.NewMemoryPostRepository(),
		tagRepo:      posts.NewMemoryTagRepository(),
		postTagRepo:  posts.NewMemoryPostTagRepository(),
		revisionRepo: posts.NewMemoryRevisionRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	if err := c.configureDatabase(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureNavigation()

	if err := c.configureServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil {
		return
	}
	if !c.Config.Features.Logger {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err == nil {
			c.loggerProvider = provider
			return
		}
		// Fall back to console output when the structured backend cannot start.
		c.loggerProvider = consoleProvider(c.Config.Logging)
	default:
		c.loggerProvider = consoleProvider(c.Config.Logging)
	}
}

func consoleProvider(cfg runtimeconfig.LoggingConfig) interfaces.LoggerProvider {
	opts := console.Options{}
	if level, ok := console.ParseLevel(cfg.Level); ok {
		opts.MinLevel = &level
	}
	return console.NewProvider(opts)
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureDatabase() error {
	if c.bunDB != nil {
		posts.RegisterModels(c.bunDB)
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	switch driver {
	case "", "memory":
		return nil
	case "sqlite", "sqlite3":
		dsn := strings.TrimSpace(c.Config.Storage.DSN)
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("press container: open sqlite database: %w", err)
		}
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres":
		if c.sqlDB == nil {
			return fmt.Errorf("press container: postgres driver requires an injected *sql.DB (use WithSQLDB)")
		}
		c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}

	if c.bunDB != nil {
		posts.RegisterModels(c.bunDB)
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	cacheService := c.cacheService
	keySerializer := c.keySerializer
	if !c.Config.Features.AdvancedCache {
		cacheService = nil
		keySerializer = nil
	}

	c.postRepo = posts.NewBunPostRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	c.tagRepo = posts.NewBunTagRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	c.postTagRepo = posts.NewBunPostTagRepository(c.bunDB)
	c.revisionRepo = posts.NewBunRevisionRepository(c.bunDB)
}

func (c *Container) configureNavigation() {
	if c.routeManager != nil {
		return
	}

	routes := c.Config.Generator.Routes
	if routes == nil {
		routes = generator.DefaultRoutes(c.Config.Generator.BaseURL)
	}
	c.routeManager = urlkit.NewRouteManager(routes)
}

func (c *Container) configureServices() error {
	if c.postSvc == nil {
		c.postSvc = posts.NewService(posts.ServiceConfig{
			Posts:            c.postRepo,
			Tags:             c.tagRepo,
			PostTags:         c.postTagRepo,
			Revisions:        c.revisionRepo,
			CaptureRevisions: c.Config.Features.Revisions,
			AllowScheduling:  c.Config.Features.Scheduling,
			Logger:           logging.PostsLogger(c.loggerProvider),
		})
	}

	if c.markdownSvc == nil && c.Config.Features.Markdown && c.Config.Markdown.Enabled {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:  c.Config.Markdown.ContentDir,
			Pattern:   c.Config.Markdown.Pattern,
			Recursive: c.Config.Markdown.Recursive,
			Parser: interfaces.ParseOptions{
				Extensions: c.Config.Markdown.Parser.Extensions,
				Sanitize:   c.Config.Markdown.Parser.Sanitize,
				HardWraps:  c.Config.Markdown.Parser.HardWraps,
				SafeMode:   c.Config.Markdown.Parser.SafeMode,
			},
		}, nil, c.postSvc, logging.MarkdownLogger(c.loggerProvider))
		if err != nil {
			return fmt.Errorf("press container: markdown service: %w", err)
		}
		c.markdownSvc = svc
	}

	if c.linter == nil && c.Config.Features.Lint {
		schema, err := c.lintSchema()
		if err != nil {
			return err
		}
		svc, err := lint.NewService(lint.Config{
			Layouts:      c.Config.Lint.Layouts,
			SummaryLimit: c.Config.Lint.SummaryLimit,
			RequireDate:  c.Config.Lint.RequireDate,
			Schema:       schema,
		}, c.Config.Markdown.ContentDir, c.Config.Markdown.Pattern, logging.LintLogger(c.loggerProvider))
		if err != nil {
			return fmt.Errorf("press container: lint service: %w", err)
		}
		c.linter = svc
	}

	if c.generatorSvc == nil {
		if !c.Config.Features.Generator || !c.Config.Generator.Enabled {
			c.generatorSvc = generator.NewDisabledService()
			return nil
		}
		if c.renderer == nil {
			renderer, err := generator.NewHTMLRenderer(c.Config.Generator.TemplatesDir)
			if err != nil {
				return fmt.Errorf("press container: template renderer: %w", err)
			}
			c.renderer = renderer
		}
		if c.store == nil {
			store, err := generator.NewOSStore(c.Config.Generator.OutputDir)
			if err != nil {
				return fmt.Errorf("press container: artifact store: %w", err)
			}
			c.store = store
		}
		c.generatorSvc = generator.NewService(generator.Config{
			BaseURL:         c.Config.Generator.BaseURL,
			DefaultLayout:   c.Config.Generator.DefaultLayout,
			CleanBuild:      c.Config.Generator.CleanBuild,
			Incremental:     c.Config.Generator.Incremental,
			GenerateSitemap: c.Config.Generator.GenerateSitemap,
			GenerateRobots:  c.Config.Generator.GenerateRobots,
			GenerateFeeds:   c.Config.Generator.GenerateFeeds,
			Workers:         c.Config.Generator.Workers,
			Site: generator.SiteMetadata{
				Title:       c.Config.Site.Title,
				Description: c.Config.Site.Description,
				BaseURL:     c.Config.Site.BaseURL,
				Language:    c.Config.Site.Language,
				AuthorName:  c.Config.Site.AuthorName,
			},
		}, generator.Dependencies{
			Posts:    c.postSvc,
			Renderer: c.renderer,
			Store:    c.store,
			Routes:   c.routeManager,
			Logger:   logging.GeneratorLogger(c.loggerProvider),
		})
	}
	return nil
}

func (c *Container) lintSchema() (map[string]any, error) {
	if len(c.Config.Lint.Schema) > 0 {
		return c.Config.Lint.Schema, nil
	}
	path := strings.TrimSpace(c.Config.Lint.SchemaPath)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("press container: read lint schema %s: %w", path, err)
	}
	schema := map[string]any{}
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("press container: parse lint schema %s: %w", path, err)
	}
	return schema, nil
}

// EnsureSchema creates the post tables when a database is configured. Memory
// deployments are a no-op.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return posts.EnsureSchema(ctx, c.bunDB)
}

// DB exposes the configured bun database handle; nil for memory deployments.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// RouteManager exposes the urlkit route manager backing permalinks.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// PostRepository exposes the configured post repository.
func (c *Container) PostRepository() posts.PostRepository {
	return c.postRepo
}

// PostService returns the configured post service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// MarkdownService returns the configured markdown service; nil when the
// feature is disabled.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// Linter returns the configured linter; nil when the feature is disabled.
func (c *Container) Linter() interfaces.Linter {
	return c.linter
}

// GeneratorService returns the configured generator service. A disabled
// generator still returns a service whose Build reports ErrServiceDisabled.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}
