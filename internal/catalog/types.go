package catalog

import (
	"path"
	"path/filepath"
	"time"
)

// Kind identifies what an Entry describes
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// File extensions shared by a document and its rendering
const (
	DocumentExt = ".json"
	RenderedExt = ".html"
)

// RootName is the encoded name of a root that has no parent, such as "/"
const RootName = "./"

// EncodeRootName names a catalog root relative to its parent directory,
// so /srv/photos becomes "./photos".
func EncodeRootName(absPath string) string {
	rel, err := filepath.Rel(filepath.Dir(absPath), absPath)
	if err != nil || rel == "." {
		return RootName
	}
	return RootName + filepath.ToSlash(rel)
}

// Entry is one node of a catalog tree.
// Name is the only place path information is kept. Every name is relative to the
// root's parent: "./photos" for the root and "./photos/a/b" for descendants.
// Children is nil for files and non-nil for directories.
type Entry struct {
	Kind     Kind
	Name     string
	Size     int64
	Children []*Entry
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Basename returns the last segment of the encoded name ("." for a parentless root)
func (e *Entry) Basename() string {
	return path.Base(e.Name)
}

// Warning records a recoverable failure that was skipped during an operation
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// BuildResult carries a built tree together with everything that was skipped
type BuildResult struct {
	Root     *Entry
	Warnings []Warning
	Visited  int
	Duration time.Duration
}

// CountFiles returns the number of file entries anywhere in the tree
func CountFiles(e *Entry) int {
	if e == nil {
		return 0
	}
	if e.Kind == KindFile {
		return 1
	}
	count := 0
	for _, child := range e.Children {
		count += CountFiles(child)
	}
	return count
}

// CountDirectories returns the number of directory entries, the given one included
func CountDirectories(e *Entry) int {
	if e == nil || e.Kind != KindDirectory {
		return 0
	}
	count := 1
	for _, child := range e.Children {
		count += CountDirectories(child)
	}
	return count
}

// Walk visits every entry in pre-order. Returning false from fn skips the entry's children.
func Walk(e *Entry, fn func(*Entry) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		Walk(child, fn)
	}
}
