package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/internal/logging"
)

// Filesystem calls used by the walk, replaced in tests to simulate failures
var (
	readDir = os.ReadDir
	lstat   = os.Lstat
)

// BuildOptions tunes a single Build call
type BuildOptions struct {
	// OnProgress is called once per visited entry with its encoded name, in traversal order.
	OnProgress func(name string)
}

// Builder walks a directory and produces an ordered Entry tree with aggregated sizes
type Builder struct {
	opts     BuildOptions
	logger   *zap.Logger
	warnings []Warning
	visited  int
}

// Build walks rootPath depth-first. Only a failure to stat rootPath itself is returned
// as an error; everything below it that cannot be read is skipped and reported as a warning.
func Build(ctx context.Context, rootPath string, opts BuildOptions) (*BuildResult, error) {
	b := &Builder{
		opts:   opts,
		logger: logging.WithContext(ctx),
	}
	return b.run(ctx, rootPath)
}

func (b *Builder) run(ctx context.Context, rootPath string) (*BuildResult, error) {
	start := time.Now()

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: rootPath, Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: absPath, Err: err}
	}

	root, err := b.visit(ctx, absPath, EncodeRootName(absPath), info)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, &IOError{Op: "stat", Path: absPath, Err: fmt.Errorf("unsupported file type %s", info.Mode().Type())}
	}

	return &BuildResult{
		Root:     root,
		Warnings: b.warnings,
		Visited:  b.visited,
		Duration: time.Since(start),
	}, nil
}

// visit returns nil when the entry is neither a regular file nor a directory
func (b *Builder) visit(ctx context.Context, fullPath, name string, info fs.FileInfo) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case info.Mode().IsRegular():
		b.progress(name)
		return &Entry{Kind: KindFile, Name: name, Size: info.Size()}, nil
	case info.IsDir():
		b.progress(name)
		return b.visitDir(ctx, fullPath, name)
	default:
		b.warn(fullPath, fmt.Errorf("unsupported file type %s", info.Mode().Type()))
		return nil, nil
	}
}

func (b *Builder) visitDir(ctx context.Context, fullPath, name string) (*Entry, error) {
	dir := &Entry{Kind: KindDirectory, Name: name, Children: []*Entry{}}

	dirEntries, err := readDir(fullPath)
	if err != nil {
		// Unreadable directories are kept, just empty
		b.warn(fullPath, fmt.Errorf("cannot read directory: %w", err))
		return dir, nil
	}

	type candidate struct {
		base string
		path string
		info fs.FileInfo
	}

	candidates := make([]candidate, 0, len(dirEntries))
	for _, de := range dirEntries {
		// Hidden entries are never statted
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}

		childPath := filepath.Join(fullPath, de.Name())
		info, err := lstat(childPath)
		if err != nil {
			b.warn(childPath, err)
			continue
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			b.warn(childPath, fmt.Errorf("symbolic link skipped"))
			continue
		}
		candidates = append(candidates, candidate{base: de.Name(), path: childPath, info: info})
	}

	// Directories first, then files, each group by name
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].info.IsDir(), candidates[j].info.IsDir()
		if di != dj {
			return di
		}
		return candidates[i].base < candidates[j].base
	})

	for _, c := range candidates {
		child, err := b.visit(ctx, c.path, ChildName(name, c.base), c.info)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		dir.Children = append(dir.Children, child)
		dir.Size += child.Size
	}

	return dir, nil
}

func (b *Builder) progress(name string) {
	b.visited++
	if b.opts.OnProgress != nil {
		b.opts.OnProgress(name)
	}
}

func (b *Builder) warn(path string, err error) {
	b.warnings = append(b.warnings, Warning{Path: path, Message: err.Error()})
	b.logger.Warn("skipping entry", zap.String("path", path), zap.Error(err))
}

// ChildName encodes the name of base inside the directory encoded as parent
func ChildName(parent, base string) string {
	if parent == RootName {
		return RootName + base
	}
	return parent + "/" + base
}
