package store

import (
	"time"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/volume"
)

// CatalogSummary describes one catalog document found in a directory
type CatalogSummary struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	HasHTML  bool      `json:"hasHtml"`
}

// CreateRequest describes a catalog to produce
type CreateRequest struct {
	Title           string `json:"title"`
	DirectoryPath   string `json:"directoryPath"`
	OutputRoot      string `json:"outputRoot"`
	OutputDirectory string `json:"outputDirectory,omitempty"`
	CopyToDirectory string `json:"copyToDirectory,omitempty"`
}

// CreateResult reports where a catalog was written and what it contains
type CreateResult struct {
	JSONPath     string            `json:"jsonPath"`
	HTMLPath     string            `json:"htmlPath"`
	FileCount    int               `json:"fileCount"`
	TotalSize    int64             `json:"totalSize"`
	CopyJSONPath string            `json:"copyJsonPath,omitempty"`
	CopyHTMLPath string            `json:"copyHtmlPath,omitempty"`
	Warnings     []catalog.Warning `json:"warnings,omitempty"`
	Volume       *volume.Info      `json:"volume,omitempty"`
}
