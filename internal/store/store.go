// Package store reads and writes catalog documents and their renderings on disk.
package store

import (
	"context"
	"errors"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/metrics"
	"github.com/ngenohkevin/storcat-agent/internal/volume"
)

var titlePattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// Store gives access to catalog documents in directories
type Store struct {
	volumes *volume.Inspector
}

// New creates a store. volumes may be nil, in which case created catalogs carry no volume facts.
func New(volumes *volume.Inspector) *Store {
	return &Store{volumes: volumes}
}

// ListDocuments returns the paths of all catalog documents directly inside dir, sorted by filename
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &catalog.IOError{Op: "list", Path: dir, Err: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), catalog.DocumentExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// ListCatalogs summarizes every parseable catalog document in dir.
// Documents that cannot be read or parsed are skipped with a warning.
func (s *Store) ListCatalogs(ctx context.Context, dir string) ([]CatalogSummary, error) {
	logger := logging.WithContext(ctx)

	paths, err := ListDocuments(dir)
	if err != nil {
		return nil, err
	}

	catalogs := make([]CatalogSummary, 0, len(paths))
	for _, path := range paths {
		summary, err := summarize(path)
		if err != nil {
			logger.Warn("skipping catalog", zap.String("path", path), zap.Error(err))
			metrics.Warnings.WithLabelValues("list").Inc()
			continue
		}
		catalogs = append(catalogs, *summary)
	}

	return catalogs, nil
}

func summarize(path string) (*CatalogSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &catalog.IOError{Op: "stat", Path: path, Err: err}
	}

	if _, err := catalog.LoadDocument(path); err != nil {
		return nil, err
	}

	name := Stem(path)
	summary := &CatalogSummary{
		Path:     path,
		Name:     name,
		Title:    name,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}

	htmlPath := RenderedPathFor(path)
	if _, err := os.Stat(htmlPath); err == nil {
		summary.HasHTML = true
		if title, ok := ReadTitle(htmlPath); ok {
			summary.Title = title
		}
	}

	return summary, nil
}

// Stem returns the filename of a document without directory or extension
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), catalog.DocumentExt)
}

// RenderedPathFor returns where the rendering of a document lives, whether or not it exists
func RenderedPathFor(documentPath string) string {
	return strings.TrimSuffix(documentPath, catalog.DocumentExt) + catalog.RenderedExt
}

// ResolveRenderedPath returns the rendering sibling of a document, failing if it is missing
func ResolveRenderedPath(documentPath string) (string, error) {
	htmlPath := RenderedPathFor(documentPath)
	if _, err := os.Stat(htmlPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &catalog.NotFoundError{Path: htmlPath}
		}
		return "", &catalog.IOError{Op: "stat", Path: htmlPath, Err: err}
	}
	return htmlPath, nil
}

// ReadRendered returns the text of a rendering
func ReadRendered(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &catalog.NotFoundError{Path: path}
		}
		return "", &catalog.IOError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// ReadTitle extracts the page title of a rendering
func ReadTitle(htmlPath string) (string, bool) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", false
	}
	match := titlePattern.FindSubmatch(data)
	if match == nil {
		return "", false
	}
	title := strings.TrimSpace(html.UnescapeString(string(match[1])))
	if title == "" {
		return "", false
	}
	return title, true
}
