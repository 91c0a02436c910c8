package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestGoldmarkParserDefaults(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := p.Parse([]byte("# Title\n\nSome ~~old~~ text with https://example.com links.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "<h1 id=\"title\">Title</h1>") {
		t.Fatalf("expected heading with auto id, got %s", out)
	}
	if !strings.Contains(out, "<del>old</del>") {
		t.Fatalf("expected strikethrough, got %s", out)
	}
	if !strings.Contains(out, "<a href=\"https://example.com\"") {
		t.Fatalf("expected autolink, got %s", out)
	}
}

func TestGoldmarkParserTaskList(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := p.Parse([]byte("- [x] done\n- [ ] pending\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "checkbox") {
		t.Fatalf("expected task list checkboxes, got %s", html)
	}
}

func TestGoldmarkParserFencedCode(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := p.Parse([]byte("```go\nfmt.Println(\"hi\")\n```\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<pre><code class=\"language-go\">") {
		t.Fatalf("expected fenced code block, got %s", out)
	}
}

func TestGoldmarkParserRawHTMLPassthrough(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := p.Parse([]byte("Intro.\n\n<Chart data=\"/d.json\" />\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<Chart") {
		t.Fatalf("expected component tag passthrough, got %s", html)
	}
}

func TestGoldmarkParserSafeMode(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := p.ParseWithOptions([]byte("<script>alert(1)</script>\n"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("safe mode must not emit raw HTML, got %s", html)
	}
}

func TestCollectExtensionsFiltersUnknown(t *testing.T) {
	exts := collectExtensions([]string{"table", "bogus", "TABLE", "footnote"})
	if len(exts) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(exts))
	}
}
