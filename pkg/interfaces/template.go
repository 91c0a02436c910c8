package interfaces

// TemplateRenderer renders a named layout with the supplied data. The
// generator resolves the layout name from the post front matter and falls
// back to the configured default.
type TemplateRenderer interface {
	Render(layout string, data any) ([]byte, error)
	// Layouts enumerates the layout names the renderer can resolve.
	Layouts() []string
}
