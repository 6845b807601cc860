package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Shape identifies which of the two historical document layouts was read
type Shape int

const (
	// ShapeObject is a single root entry object
	ShapeObject Shape = iota
	// ShapeArray is an array whose first element is the root entry
	ShapeArray
)

func (s Shape) String() string {
	if s == ShapeArray {
		return "array"
	}
	return "object"
}

// Document is a parsed catalog document resolved to the canonical tree
type Document struct {
	Root  *Entry
	Shape Shape
}

// wireEntry is the on-disk layout. Contents is a pointer so that an empty
// directory still serializes as "contents":[] while files omit the field.
type wireEntry struct {
	Type     string       `json:"type"`
	Name     string       `json:"name"`
	Size     int64        `json:"size"`
	Contents *[]wireEntry `json:"contents,omitempty"`
}

// Encode serializes the tree as a compact single-object document
func Encode(root *Entry) ([]byte, error) {
	if root == nil {
		return nil, errors.New("nil catalog root")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toWire(root)); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	// Encoder always terminates with a newline
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func toWire(e *Entry) wireEntry {
	w := wireEntry{Type: string(e.Kind), Name: e.Name, Size: e.Size}
	if e.Children != nil {
		contents := make([]wireEntry, 0, len(e.Children))
		for _, child := range e.Children {
			contents = append(contents, toWire(child))
		}
		w.Contents = &contents
	}
	return w
}

func fromWire(w wireEntry) *Entry {
	e := &Entry{Kind: Kind(w.Type), Name: w.Name, Size: w.Size}
	if w.Contents != nil {
		e.Children = make([]*Entry, 0, len(*w.Contents))
		for _, child := range *w.Contents {
			e.Children = append(e.Children, fromWire(child))
		}
	}
	return e
}

// Decode parses a document in either the object or the one-element array layout
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Err: errors.New("empty document")}
	}

	switch trimmed[0] {
	case '{':
		var root wireEntry
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, &ParseError{Err: err}
		}
		return &Document{Root: fromWire(root), Shape: ShapeObject}, nil
	case '[':
		// Anything after the first element (such as a report object) is ignored
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, &ParseError{Err: err}
		}
		if len(elems) == 0 {
			return nil, &ParseError{Err: errors.New("empty document array")}
		}
		var root wireEntry
		if err := json.Unmarshal(elems[0], &root); err != nil {
			return nil, &ParseError{Err: err}
		}
		return &Document{Root: fromWire(root), Shape: ShapeArray}, nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("unexpected leading character %q", trimmed[0])}
	}
}

// LoadDocument reads and parses the document at path
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	doc, err := Decode(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// IsBareWrapper reports whether e is an unnamed container that only carries children
func IsBareWrapper(e *Entry) bool {
	return e.Name == "" && e.Children != nil
}

// MarshalJSON encodes an entry in the document layout
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(e))
}

// UnmarshalJSON decodes an entry from the document layout
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = *fromWire(w)
	return nil
}
