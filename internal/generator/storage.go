package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ArtifactStore abstracts where generated files land so tests and embedded
// hosts can capture output without touching disk.
type ArtifactStore interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
	List(ctx context.Context) ([]string, error)
}

// OSStore writes artifacts under a root directory on the local filesystem.
type OSStore struct {
	root string
}

// NewOSStore builds a store rooted at dir.
func NewOSStore(dir string) (*OSStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("generator store: output directory is required")
	}
	return &OSStore{root: filepath.Clean(dir)}, nil
}

func (s *OSStore) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("generator store: mkdir %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("generator store: write %s: %w", path, err)
	}
	return nil
}

func (s *OSStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (s *OSStore) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("generator store: read root: %w", err)
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
				return fmt.Errorf("generator store: remove %s: %w", entry.Name(), err)
			}
		}
		return nil
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	return os.RemoveAll(full)
}

func (s *OSStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// resolve keeps artifact paths inside the store root.
func (s *OSStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, s.root) {
		return "", fmt.Errorf("generator store: path %s escapes output directory", path)
	}
	return full, nil
}

// MemoryStore keeps artifacts in a map. Tests use it to assert on output.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string][]byte{}}
}

func (s *MemoryStore) WriteFile(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[normaliseStorePath(path)] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) ReadFile(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[normaliseStorePath(path)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) RemoveAll(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := normaliseStorePath(path)
	if prefix == "" || prefix == "." {
		s.files = map[string][]byte{}
		return nil
	}
	for key := range s.files {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			delete(s.files, key)
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for key := range s.files {
		paths = append(paths, key)
	}
	sort.Strings(paths)
	return paths, nil
}

func normaliseStorePath(path string) string {
	return strings.TrimPrefix(strings.TrimSpace(filepath.ToSlash(path)), "/")
}
