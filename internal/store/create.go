package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/filelock"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/metrics"
	"github.com/ngenohkevin/storcat-agent/internal/render"
)

// Validate checks that a request names a root and a usable output base name
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.DirectoryPath) == "" {
		return errors.New("directoryPath is required")
	}
	if strings.TrimSpace(r.OutputRoot) == "" {
		return errors.New("outputRoot is required")
	}
	if strings.ContainsAny(r.OutputRoot, `/\`) || r.OutputRoot == "." || r.OutputRoot == ".." {
		return fmt.Errorf("outputRoot %q must be a plain file name", r.OutputRoot)
	}
	return nil
}

// Create builds a catalog of req.DirectoryPath and writes its document and rendering.
// Any unrecoverable failure is returned as a single error prefixed with "failed to create catalog".
func (s *Store) Create(ctx context.Context, req CreateRequest, onProgress func(name string)) (*CreateResult, error) {
	result, err := s.create(ctx, req, onProgress)
	if err != nil {
		metrics.CatalogsCreated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}
	metrics.CatalogsCreated.WithLabelValues("ok").Inc()
	return result, nil
}

func (s *Store) create(ctx context.Context, req CreateRequest, onProgress func(name string)) (*CreateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx)

	built, err := catalog.Build(ctx, req.DirectoryPath, catalog.BuildOptions{OnProgress: onProgress})
	if err != nil {
		return nil, err
	}
	metrics.RecordBuild(built.Visited, len(built.Warnings), built.Duration)

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = req.OutputRoot
	}

	document, err := catalog.Encode(built.Root)
	if err != nil {
		return nil, err
	}
	page, err := render.HTML(built.Root, title)
	if err != nil {
		return nil, fmt.Errorf("failed to render catalog: %w", err)
	}

	outputDir := req.OutputDirectory
	if outputDir == "" {
		outputDir = req.DirectoryPath
	}

	result := &CreateResult{
		JSONPath:  filepath.Join(outputDir, req.OutputRoot+catalog.DocumentExt),
		HTMLPath:  filepath.Join(outputDir, req.OutputRoot+catalog.RenderedExt),
		FileCount: catalog.CountFiles(built.Root),
		TotalSize: built.Root.Size,
		Warnings:  built.Warnings,
	}

	if err := writeOutputs(outputDir, req.OutputRoot, map[string][]byte{
		result.JSONPath: document,
		result.HTMLPath: page,
	}); err != nil {
		return nil, err
	}

	if req.CopyToDirectory != "" {
		copyJSON := filepath.Join(req.CopyToDirectory, req.OutputRoot+catalog.DocumentExt)
		copyHTML := filepath.Join(req.CopyToDirectory, req.OutputRoot+catalog.RenderedExt)

		if err := filelock.CopyFile(result.JSONPath, copyJSON); err != nil {
			return nil, &catalog.IOError{Op: catalog.OpCopy, Path: copyJSON, Err: err}
		}
		if err := filelock.CopyFile(result.HTMLPath, copyHTML); err != nil {
			return nil, &catalog.IOError{Op: catalog.OpCopy, Path: copyHTML, Err: err}
		}
		result.CopyJSONPath = copyJSON
		result.CopyHTMLPath = copyHTML
	}

	if s.volumes != nil {
		vol, err := s.volumes.Volume(req.DirectoryPath)
		if err != nil {
			logger.Warn("volume facts unavailable", zap.String("path", req.DirectoryPath), zap.Error(err))
		} else {
			result.Volume = vol
		}
	}

	logger.Info("catalog created",
		zap.String("root", req.DirectoryPath),
		zap.String("document", result.JSONPath),
		zap.Int("files", result.FileCount),
		zap.Int64("total_size", result.TotalSize),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("build_duration", built.Duration),
	)

	return result, nil
}

// writeOutputs writes every file under the output lock so concurrent creates of
// the same base name never interleave their document and rendering
func writeOutputs(dir, base string, files map[string][]byte) error {
	lock := filelock.ForOutput(dir, base)
	if err := lock.Lock(); err != nil {
		return &catalog.IOError{Op: "write", Path: lock.Path(), Err: err}
	}
	defer lock.Unlock()

	for path, data := range files {
		if err := filelock.AtomicWrite(path, data); err != nil {
			return &catalog.IOError{Op: "write", Path: path, Err: err}
		}
	}
	return nil
}
