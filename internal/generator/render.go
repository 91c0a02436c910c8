package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/pkg/interfaces"
)

//go:embed templates/*.html.tmpl
var defaultTemplates embed.FS

// TemplateContext is the data contract passed to layout templates.
type TemplateContext struct {
	Site    SiteMetadata
	Post    PostContext
	List    ListContext
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide information to templates.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
	Language    string
	AuthorName  string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PostContext contains the resolved data for a single post page.
type PostContext struct {
	ID      uuid.UUID
	Slug    string
	Title   string
	Summary string
	Author  string
	Date    time.Time
	Content template.HTML
	Tags    []TagRef
	Route   string
}

// TagRef links a tag name to its listing page.
type TagRef struct {
	Name  string
	Slug  string
	Route string
}

// ListContext backs index and tag listing pages.
type ListContext struct {
	Title string
	Tag   *TagRef
	Posts []ListEntry
}

// ListEntry is one row in a listing page.
type ListEntry struct {
	Slug    string
	Title   string
	Summary string
	Date    time.Time
	Route   string
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured site base URL.
func (h TemplateHelpers) BaseURL() string {
	return h.baseURL
}

// WithBaseURL prefixes the provided path with the configured base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return h.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if h.baseURL == "" {
		return path
	}
	return h.baseURL + path
}

// RenderedPost captures the rendered HTML output for one page.
type RenderedPost struct {
	PostID       uuid.UUID
	Slug         string
	Title        string
	Summary      string
	Layout       string
	Route        string
	Output       string
	HTML         string
	Checksum     string
	PublishedAt  time.Time
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Slug     string
	Route    string
	Layout   string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPost
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

// HTMLRenderer implements interfaces.TemplateRenderer with html/template.
// Layout names map to "<name>.html.tmpl" files; templates from TemplatesDir
// shadow the embedded defaults.
type HTMLRenderer struct {
	templates map[string]*template.Template
}

// NewHTMLRenderer loads the embedded layouts, then overlays any templates
// found in templatesDir. An empty dir keeps the defaults only.
func NewHTMLRenderer(templatesDir string) (*HTMLRenderer, error) {
	templates := map[string]*template.Template{}

	entries, err := defaultTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("generator renderer: read embedded templates: %w", err)
	}
	for _, entry := range entries {
		name := layoutName(entry.Name())
		if name == "" {
			continue
		}
		data, err := defaultTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("generator renderer: read %s: %w", entry.Name(), err)
		}
		tmpl, err := template.New(name).Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("generator renderer: parse %s: %w", entry.Name(), err)
		}
		templates[name] = tmpl
	}

	if strings.TrimSpace(templatesDir) != "" {
		overlays, err := os.ReadDir(templatesDir)
		if err != nil {
			return nil, fmt.Errorf("generator renderer: read templates dir %s: %w", templatesDir, err)
		}
		for _, entry := range overlays {
			if entry.IsDir() {
				continue
			}
			name := layoutName(entry.Name())
			if name == "" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(templatesDir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("generator renderer: read %s: %w", entry.Name(), err)
			}
			tmpl, err := template.New(name).Parse(string(data))
			if err != nil {
				return nil, fmt.Errorf("generator renderer: parse %s: %w", entry.Name(), err)
			}
			templates[name] = tmpl
		}
	}

	return &HTMLRenderer{templates: templates}, nil
}

// Render executes the named layout with the provided data.
func (r *HTMLRenderer) Render(layout string, data any) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(layout))
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("generator renderer: unknown layout %q", layout)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("generator renderer: execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Layouts lists the registered layout names.
func (r *HTMLRenderer) Layouts() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// templateHTML marks pre-rendered Markdown output as safe for templates.
func templateHTML(value string) template.HTML {
	return template.HTML(value)
}

func layoutName(fileName string) string {
	if !strings.HasSuffix(fileName, ".html.tmpl") {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(fileName, ".html.tmpl"))
}

var _ interfaces.TemplateRenderer = (*HTMLRenderer)(nil)
