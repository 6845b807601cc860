// Package render produces the legacy tree(1)-style HTML listing of a catalog.
package render

import (
	"bytes"
	"io"
	"strings"
	"text/template"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	indentBar     = "│   "
	indentBlank   = "    "
)

var htmlEscaper = strings.NewReplacer(
	`"`, "&quot;",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes the four characters tree(1) escapes in HTML output
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var pageTemplate = template.Must(template.New("tree").Parse(pageSource))

type pageData struct {
	Title       string
	Tree        string
	Total       string
	Directories int
	Files       int
}

// HTML renders the catalog tree as a complete HTML document
func HTML(root *catalog.Entry, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, root, title); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the catalog tree as a complete HTML document into w
func WriteHTML(w io.Writer, root *catalog.Entry, title string) error {
	var tree strings.Builder
	writeBranch(&tree, root, true, "")

	return pageTemplate.Execute(w, pageData{
		Title:       EscapeHTML(title),
		Tree:        tree.String(),
		Total:       FormatBytes(root.Size),
		Directories: catalog.CountDirectories(root),
		Files:       catalog.CountFiles(root),
	})
}

func writeBranch(sb *strings.Builder, e *catalog.Entry, isLast bool, prefix string) {
	connector := connectorMid
	if isLast {
		connector = connectorLast
	}

	sb.WriteString(prefix)
	sb.WriteString(connector)
	sb.WriteString(FormatBytesForDisplay(e.Size))
	sb.WriteString("&nbsp;&nbsp;")
	sb.WriteString(EscapeHTML(e.Basename()))
	sb.WriteString("<br>\n")

	if !e.IsDir() || len(e.Children) == 0 {
		return
	}

	childPrefix := prefix + indentBar
	if isLast {
		childPrefix = prefix + indentBlank
	}
	for i, child := range e.Children {
		writeBranch(sb, child, i == len(e.Children)-1, childPrefix)
	}
}
