// Package search finds entries by name across every catalog document in a directory.
package search

import (
	"context"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/metrics"
	"github.com/ngenohkevin/storcat-agent/internal/store"
)

// DefaultWorkers is the number of documents parsed concurrently when none is configured
const DefaultWorkers = 4

// Result is one matching entry
type Result struct {
	Catalog         string       `json:"catalog"`
	CatalogFilePath string       `json:"catalogFilePath"`
	Basename        string       `json:"basename"`
	FullPath        string       `json:"fullPath"`
	FullName        string       `json:"fullName"`
	Type            catalog.Kind `json:"type"`
	Size            int64        `json:"size"`
}

// Engine searches catalog directories
type Engine struct {
	workers int
}

// NewEngine creates an engine that parses up to workers documents at once
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Engine{workers: workers}
}

// Search matches term case-insensitively against every entry name of every document in dir.
// Results follow document enumeration order, then pre-order traversal within each document.
// Only a failure to enumerate dir is returned; unreadable documents are skipped.
func (e *Engine) Search(ctx context.Context, term, dir string) ([]Result, error) {
	logger := logging.WithContext(ctx)
	metrics.Searches.Inc()

	paths, err := store.ListDocuments(dir)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	perDocument := make([][]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, docPath := range paths {
		i, docPath := i, docPath
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := catalog.LoadDocument(docPath)
			if err != nil {
				logger.Warn("skipping catalog", zap.String("path", docPath), zap.Error(err))
				metrics.Warnings.WithLabelValues("search").Inc()
				return nil
			}
			perDocument[i] = SearchDocument(doc, needle, store.Stem(docPath), docPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0)
	for _, matches := range perDocument {
		results = append(results, matches...)
	}
	metrics.SearchResults.Add(float64(len(results)))

	return results, nil
}

// SearchDocument returns the entries of one parsed document whose names contain term.
// term must already be lower-cased.
func SearchDocument(doc *catalog.Document, term, catalogName, catalogPath string) []Result {
	var results []Result
	catalog.Walk(doc.Root, func(e *catalog.Entry) bool {
		// Unnamed containers are descended into but never matched
		if catalog.IsBareWrapper(e) {
			return true
		}
		if e.Name != "" && strings.Contains(strings.ToLower(e.Name), term) {
			results = append(results, newResult(e, catalogName, catalogPath))
		}
		return true
	})
	return results
}

func newResult(e *catalog.Entry, catalogName, catalogPath string) Result {
	dir := dirname(e.Name)
	if dir == "." {
		dir = ""
	}
	return Result{
		Catalog:         catalogName,
		CatalogFilePath: catalogPath,
		Basename:        path.Base(e.Name),
		FullPath:        dir,
		FullName:        e.Name,
		Type:            e.Kind,
		Size:            e.Size,
	}
}

// dirname returns everything before the last separator of name without cleaning
// the result, so "./a/b" yields "./a" rather than "a"
func dirname(name string) string {
	trimmed := strings.TrimRight(name, "/")
	if trimmed == "" {
		if name == "" {
			return "."
		}
		return "/"
	}

	i := strings.LastIndex(trimmed, "/")
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	}
	return trimmed[:i]
}
