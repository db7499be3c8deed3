// Package docs reads hand-written component documentation from markdown files and
// generates the offline documentation package.
package docs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

const (
	// DefaultPattern matches component docs at any depth
	DefaultPattern = "**/*.md"
	// DefaultMaxFileSize limits a single doc file
	DefaultMaxFileSize int64 = 1024 * 1024

	headerReadSize = 8 * 1024
)

// FileInfo describes one component doc file
type FileInfo struct {
	Component   string // component name from frontmatter or file name
	Rel         string // slash separated path relative to the docs dir
	Path        string // absolute path
	Size        int64
	Description string
	Tags        []string
}

// Params configures a Store
type Params struct {
	Dir         string
	Pattern     string // defaults to DefaultPattern
	MaxFileSize int64  // defaults to DefaultMaxFileSize
}

// Store finds component docs in a directory
type Store struct {
	dir         string
	pattern     string
	maxFileSize int64
}

// NewStore creates a store for the docs directory
func NewStore(params Params) *Store {
	s := &Store{dir: params.Dir, pattern: params.Pattern, maxFileSize: params.MaxFileSize}
	if s.pattern == "" {
		s.pattern = DefaultPattern
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = DefaultMaxFileSize
	}
	return s
}

// Dir returns the docs directory
func (s *Store) Dir() string {
	return s.dir
}

// Scan lists doc files sorted by relative path. A missing directory yields no files.
func (s *Store) Scan(ctx context.Context) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err // nolint:wrapcheck // context errors should be returned as-is
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []FileInfo{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.dir, err)
	}
	sort.Strings(matches)

	results := make([]FileInfo, 0, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err // nolint:wrapcheck // context errors should be returned as-is
		}
		if isHidden(rel) || !strings.HasSuffix(rel, ".md") {
			continue
		}

		path := filepath.Join(s.dir, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			slog.Debug("skipping doc, cannot stat", "path", path, "error", err)
			continue
		}

		fm := readHeader(path)
		name := fm.Component
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(rel), ".md")
		}
		results = append(results, FileInfo{
			Component:   name,
			Rel:         rel,
			Path:        path,
			Size:        info.Size(),
			Description: fm.Description,
			Tags:        fm.Tags,
		})
	}
	return results, nil
}

// Find returns the doc for a component, nil when there is none
func (s *Store) Find(ctx context.Context, name string) (*engine.ComponentDoc, error) {
	files, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.findIn(files, name)
}

func (s *Store) findIn(files []FileInfo, name string) (*engine.ComponentDoc, error) {
	for _, f := range files {
		if strings.EqualFold(f.Component, name) {
			return s.Load(f.Rel)
		}
	}
	return nil, nil
}

// Load reads and parses a doc by its path relative to the docs dir
func (s *Store) Load(rel string) (*engine.ComponentDoc, error) {
	path, err := SafeResolvePath(s.dir, rel, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is resolved inside the docs dir
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}

	fm, body := ParseFrontmatter(data)
	return &engine.ComponentDoc{
		Description: fm.Description,
		Tags:        fm.Tags,
		Props:       fm.Props,
		Styling:     fm.Styling,
		Body:        string(body),
	}, nil
}

// readHeader parses the frontmatter from the beginning of a file
func readHeader(path string) Frontmatter {
	// #nosec G304 - path comes from the scan, not user input
	f, err := os.Open(path)
	if err != nil {
		return Frontmatter{}
	}
	defer f.Close()

	buf := make([]byte, headerReadSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return Frontmatter{}
	}
	fm, _ := ParseFrontmatter(buf[:n])
	return fm
}

// isHidden reports whether any segment of a slash separated path starts with a dot
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// SafeResolvePath resolves rel inside baseDir, rejecting absolute paths, traversal
// outside baseDir, missing files and files over maxSize. A missing .md extension is added.
func SafeResolvePath(baseDir, rel string, maxSize int64) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path provided")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("absolute paths not allowed: %s", rel)
	}
	if !strings.HasSuffix(rel, ".md") {
		rel += ".md"
	}

	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", rel)
	}

	base := filepath.Clean(baseDir)
	path := filepath.Join(base, cleaned)
	if r, err := filepath.Rel(base, path); err != nil || strings.HasPrefix(r, "..") {
		return "", fmt.Errorf("path traversal not allowed: resolved path outside base directory")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", rel)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", rel)
	}
	if info.Size() > maxSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxSize)
	}
	return path, nil
}
