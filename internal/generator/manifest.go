package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	manifestFileName    = ".press-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Posts       map[string]manifestPost `json:"posts"`
}

type manifestPost struct {
	Slug       string    `json:"slug"`
	Route      string    `json:"route"`
	Output     string    `json:"output"`
	Layout     string    `json:"layout"`
	Checksum   string    `json:"checksum"`
	RenderedAt time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Posts:   map[string]manifestPost{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Posts == nil {
		manifest.Posts = map[string]manifestPost{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		Posts       []manifestPost `json:"posts"`
	}
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	if len(m.Posts) > 0 {
		ordered.Posts = make([]manifestPost, 0, len(m.Posts))
		for _, entry := range m.Posts {
			ordered.Posts = append(ordered.Posts, entry)
		}
		sort.Slice(ordered.Posts, func(i, j int) bool {
			return ordered.Posts[i].Slug < ordered.Posts[j].Slug
		})
	}
	return json.MarshalIndent(ordered, "", "  ")
}

// UnmarshalJSON accepts both the map form used in memory and the ordered
// slice form written to disk.
func (m *buildManifest) UnmarshalJSON(data []byte) error {
	var onDisk struct {
		Version     int             `json:"version"`
		GeneratedAt time.Time       `json:"generated_at"`
		Posts       json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return err
	}
	m.Version = onDisk.Version
	m.GeneratedAt = onDisk.GeneratedAt
	m.Posts = map[string]manifestPost{}

	if len(onDisk.Posts) == 0 {
		return nil
	}
	var asSlice []manifestPost
	if err := json.Unmarshal(onDisk.Posts, &asSlice); err == nil {
		for _, entry := range asSlice {
			m.setPost(entry)
		}
		return nil
	}
	var asMap map[string]manifestPost
	if err := json.Unmarshal(onDisk.Posts, &asMap); err != nil {
		return err
	}
	m.Posts = asMap
	return nil
}

func (m *buildManifest) lookupPost(slug string) (manifestPost, bool) {
	if m == nil || len(m.Posts) == 0 {
		return manifestPost{}, false
	}
	entry, ok := m.Posts[strings.ToLower(strings.TrimSpace(slug))]
	return entry, ok
}

func (m *buildManifest) setPost(entry manifestPost) {
	if m == nil {
		return
	}
	if m.Posts == nil {
		m.Posts = map[string]manifestPost{}
	}
	m.Posts[strings.ToLower(strings.TrimSpace(entry.Slug))] = entry
}

// shouldSkipPost reports whether a post is unchanged since the last build.
func (m *buildManifest) shouldSkipPost(slug, checksum, output string) bool {
	entry, ok := m.lookupPost(slug)
	if !ok {
		return false
	}
	if checksum == "" || entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) prunePosts(keep map[string]struct{}) {
	if m == nil || len(m.Posts) == 0 {
		return
	}
	for key := range m.Posts {
		if _, ok := keep[key]; !ok {
			delete(m.Posts, key)
		}
	}
}
