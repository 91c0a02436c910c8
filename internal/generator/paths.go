package generator

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// Route names looked up in the configured urlkit group.
const (
	routeGroupSite = "site"
	routePost      = "post"
	routeTag       = "tag"
)

// DefaultRoutes returns the urlkit configuration used when the host does not
// supply its own permalink scheme.
func DefaultRoutes(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroupSite,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					routePost: "/posts/:slug",
					routeTag:  "/tags/:slug",
				},
			},
		},
	}
}

// pathResolver maps slugs to site-relative routes through a urlkit
// RouteManager so hosts can reshape permalinks via configuration.
type pathResolver struct {
	manager *urlkit.RouteManager
}

func newPathResolver(manager *urlkit.RouteManager) *pathResolver {
	return &pathResolver{manager: manager}
}

func (r *pathResolver) postRoute(slug string) (string, error) {
	return r.buildRoute(routePost, slug)
}

func (r *pathResolver) tagRoute(slug string) (string, error) {
	return r.buildRoute(routeTag, slug)
}

func (r *pathResolver) buildRoute(route, slug string) (string, error) {
	if r == nil || r.manager == nil {
		return fmt.Sprintf("/%ss/%s", route, slug), nil
	}
	group, err := lookupGroup(r.manager, routeGroupSite)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	builder.WithParam("slug", slug)
	built, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("generator: build %s route for %q: %w", route, slug, err)
	}
	return routePath(built), nil
}

// routePath strips scheme and host from a urlkit URL so outputs stay
// site-relative.
func routePath(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Path == "" {
		return raw
	}
	return parsed.Path
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("generator: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("generator: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

// outputPath converts a route into the on-disk artifact path, using the
// directory-index convention so URLs need no .html suffix.
func outputPath(route string) string {
	trimmed := strings.Trim(strings.TrimSpace(route), "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}

func absoluteURL(baseURL, route string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}
