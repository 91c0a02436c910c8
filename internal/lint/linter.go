package lint

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
	pressposts "github.com/goliatone/go-press/posts"
)

// Rule identifiers reported in lint issues.
const (
	RuleTitleRequired     = "title-required"
	RuleDateRequired      = "date-required"
	RuleSlugFormat        = "slug-format"
	RuleLayoutUnknown     = "layout-unknown"
	RuleSummaryLength     = "summary-length"
	RuleFenceBalance      = "fence-balance"
	RuleFrontMatterSchema = "frontmatter-schema"
	RuleDuplicateSlug     = "duplicate-slug"
	RuleFrontMatterParse  = "frontmatter-parse"
)

// Config tunes the content hygiene rules.
type Config struct {
	// Layouts is the allow-list of layout names; empty accepts any layout.
	Layouts []string
	// SummaryLimit flags summaries longer than this many characters. Zero
	// disables the rule.
	SummaryLimit int
	// RequireDate makes a missing or zero front matter date an error.
	RequireDate bool
	// Schema validates the full front matter mapping when provided.
	Schema map[string]any
}

// Service implements interfaces.Linter over front-mattered content files.
// Linting never mutates files or the post store.
type Service struct {
	cfg     Config
	fsys    fs.FS
	loader  *markdown.Loader
	layouts map[string]struct{}
	logger  interfaces.Logger
}

// NewService builds a linter rooted at basePath. Pattern follows the loader's
// glob syntax and defaults to "*.{md,mdx}".
func NewService(cfg Config, basePath, pattern string, logger interfaces.Logger) (*Service, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("lint service: stat base path %s: %w", basePath, err)
	}
	return NewServiceWithFS(os.DirFS(basePath), cfg, pattern, logger)
}

// NewServiceWithFS builds a linter over the provided filesystem.
func NewServiceWithFS(fsys fs.FS, cfg Config, pattern string, logger interfaces.Logger) (*Service, error) {
	if cfg.Schema != nil {
		if err := compileCheck(cfg.Schema); err != nil {
			return nil, fmt.Errorf("lint service: %w", err)
		}
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	layouts := make(map[string]struct{}, len(cfg.Layouts))
	for _, layout := range cfg.Layouts {
		trimmed := strings.ToLower(strings.TrimSpace(layout))
		if trimmed != "" {
			layouts[trimmed] = struct{}{}
		}
	}

	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{
		Pattern:   pattern,
		Recursive: true,
	})

	return &Service{
		cfg:     cfg,
		fsys:    fsys,
		loader:  loader,
		layouts: layouts,
		logger:  logger,
	}, nil
}

// LintFile checks a single file.
func (s *Service) LintFile(ctx context.Context, path string) (*interfaces.LintReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	source, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("lint service: read %s: %w", path, err)
	}
	return s.LintSource(ctx, path, source), nil
}

// LintDirectory checks every matching file under dir and additionally flags
// slugs claimed by more than one file.
func (s *Service) LintDirectory(ctx context.Context, dir string) (*interfaces.LintReport, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, markdown.LoadParams{})
	if err != nil {
		return nil, err
	}

	report := &interfaces.LintReport{}
	slugOwners := map[string]string{}

	for _, result := range results {
		fileReport := s.LintSource(ctx, result.Document.FilePath, result.Source)
		report.Checked++
		report.Issues = append(report.Issues, fileReport.Issues...)

		slug := documentSlug(result.Document)
		if slug == "" {
			continue
		}
		if owner, ok := slugOwners[slug]; ok {
			report.Issues = append(report.Issues, interfaces.LintIssue{
				Path:     result.Document.FilePath,
				Line:     1,
				Rule:     RuleDuplicateSlug,
				Severity: interfaces.SeverityError,
				Message:  fmt.Sprintf("slug %q already used by %s", slug, owner),
			})
			continue
		}
		slugOwners[slug] = result.Document.FilePath
	}

	s.logger.Debug("lint directory complete", "dir", dir, "checked", report.Checked, "issues", len(report.Issues))
	return report, nil
}

// LintSource checks raw file bytes without touching the filesystem.
func (s *Service) LintSource(_ context.Context, path string, source []byte) *interfaces.LintReport {
	report := &interfaces.LintReport{Checked: 1}

	fm, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterParse,
			Severity: interfaces.SeverityError,
			Message:  err.Error(),
		})
		return report
	}

	s.checkFrontMatter(path, fm, report)
	s.checkFences(path, source, body, report)
	s.checkSchema(path, fm, report)
	return report
}

func (s *Service) checkFrontMatter(path string, fm interfaces.FrontMatter, report *interfaces.LintReport) {
	addIssue := func(rule string, severity interfaces.Severity, message string) {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Path:     path,
			Line:     1,
			Rule:     rule,
			Severity: severity,
			Message:  message,
		})
	}

	if strings.TrimSpace(fm.Title) == "" {
		addIssue(RuleTitleRequired, interfaces.SeverityError, "front matter must declare a title")
	}
	if s.cfg.RequireDate && fm.Date.IsZero() {
		addIssue(RuleDateRequired, interfaces.SeverityError, "front matter must declare a date")
	}
	if slug := strings.TrimSpace(fm.Slug); slug != "" && !pressposts.IsValidSlug(slug) {
		addIssue(RuleSlugFormat, interfaces.SeverityError, fmt.Sprintf("slug %q is not URL safe", slug))
	}
	if layout := strings.ToLower(strings.TrimSpace(fm.Layout)); layout != "" && len(s.layouts) > 0 {
		if _, ok := s.layouts[layout]; !ok {
			addIssue(RuleLayoutUnknown, interfaces.SeverityError, fmt.Sprintf("layout %q is not registered", fm.Layout))
		}
	}
	if s.cfg.SummaryLimit > 0 && len([]rune(fm.Summary)) > s.cfg.SummaryLimit {
		addIssue(RuleSummaryLength, interfaces.SeverityWarning,
			fmt.Sprintf("summary is %d characters, limit is %d", len([]rune(fm.Summary)), s.cfg.SummaryLimit))
	}
}

// checkFences walks the Markdown body and reports fenced code blocks that are
// never closed.
func (s *Service) checkFences(path string, source, body []byte, report *interfaces.LintReport) {
	offset := bodyLineOffset(source, body)

	var openLine int
	var openMarker byte
	var openLen int
	inFence := false

	lines := bytes.Split(body, []byte("\n"))
	for idx, line := range lines {
		trimmed := bytes.TrimLeft(line, " ")
		if len(line)-len(trimmed) > 3 {
			continue
		}
		marker, length := fenceMarker(trimmed)
		if marker == 0 {
			continue
		}
		if !inFence {
			inFence = true
			openLine = offset + idx + 1
			openMarker = marker
			openLen = length
			continue
		}
		// Closing fence must match the opener's character and be at least as long.
		if marker == openMarker && length >= openLen && len(bytes.TrimRight(trimmed, string(marker))) == 0 {
			inFence = false
		}
	}

	if inFence {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Path:     path,
			Line:     openLine,
			Rule:     RuleFenceBalance,
			Severity: interfaces.SeverityError,
			Message:  "fenced code block is never closed",
		})
	}
}

func (s *Service) checkSchema(path string, fm interfaces.FrontMatter, report *interfaces.LintReport) {
	if s.cfg.Schema == nil {
		return
	}
	issues, err := validateAgainstSchema(s.cfg.Schema, fm.Raw)
	if err != nil {
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.SeverityError,
			Message:  err.Error(),
		})
		return
	}
	for _, issue := range issues {
		message := issue.Message
		if issue.Location != "" {
			message = fmt.Sprintf("%s: %s", issue.Location, issue.Message)
		}
		report.Issues = append(report.Issues, interfaces.LintIssue{
			Path:     path,
			Line:     1,
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.SeverityError,
			Message:  message,
		})
	}
}

func fenceMarker(line []byte) (byte, int) {
	if len(line) < 3 {
		return 0, 0
	}
	marker := line[0]
	if marker != '`' && marker != '~' {
		return 0, 0
	}
	length := 0
	for length < len(line) && line[length] == marker {
		length++
	}
	if length < 3 {
		return 0, 0
	}
	return marker, length
}

// bodyLineOffset counts the lines the front matter block occupies so fence
// issues report positions in the original file.
func bodyLineOffset(source, body []byte) int {
	idx := bytes.LastIndex(source, body)
	if idx <= 0 {
		return 0
	}
	return bytes.Count(source[:idx], []byte("\n"))
}

func documentSlug(doc *interfaces.Document) string {
	slug := strings.TrimSpace(doc.FrontMatter.Slug)
	if slug != "" {
		return strings.ToLower(slug)
	}
	base := doc.FilePath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	normalized, err := pressposts.NormalizeSlug(base)
	if err != nil {
		return ""
	}
	return normalized
}
