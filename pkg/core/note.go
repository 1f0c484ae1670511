// Package core holds the domain of Notey: notes, their document types and
// the storage port the rest of the system depends on.
package core

import (
	"fmt"
	"strings"
)

// DocType selects the editing surface and content transform applied to a note.
type DocType string

const (
	DocTypeText      DocType = "txt"
	DocTypeMarkdown  DocType = "md"
	DocTypeFormatted DocType = "formatted"
)

// DefaultDocType is used when a caller does not choose one.
const DefaultDocType = DocTypeMarkdown

// DocTypes lists every supported document type in display order.
func DocTypes() []DocType {
	return []DocType{DocTypeText, DocTypeMarkdown, DocTypeFormatted}
}

// ParseDocType converts a tag into a DocType.
func ParseDocType(s string) (DocType, error) {
	dt := DocType(strings.ToLower(strings.TrimSpace(s)))
	if !dt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocType, s)
	}
	return dt, nil
}

// Valid reports whether dt is one of the supported document types.
func (dt DocType) Valid() bool {
	switch dt {
	case DocTypeText, DocTypeMarkdown, DocTypeFormatted:
		return true
	}
	return false
}

// Extension is the file extension used when exporting a note of this type.
// It is the literal tag, so a formatted note exports as "name.formatted".
func (dt DocType) Extension() string {
	return string(dt)
}

func (dt DocType) String() string {
	return string(dt)
}

// Note is the only persistent entity.
// Content is always the canonical source for its DocType: plain text for txt,
// Markdown for md and formatted. HTML projections are never stored.
type Note struct {
	ID           string  `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	Content      string  `json:"content" yaml:"content"`
	DocType      DocType `json:"docType" yaml:"docType"`
	LastModified int64   `json:"lastModified" yaml:"lastModified"` // epoch milliseconds
}

// Patch carries the fields of an update. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
	DocType *DocType
}

// SetTitle returns a patch that replaces the title.
func SetTitle(title string) Patch {
	return Patch{Title: &title}
}

// SetContent returns a patch that replaces the content.
func SetContent(content string) Patch {
	return Patch{Content: &content}
}

// SetDocType returns a patch that changes the document type.
// Content is not transformed.
func SetDocType(dt DocType) Patch {
	return Patch{DocType: &dt}
}

// Merge combines two patches; fields set in other win.
func (p Patch) Merge(other Patch) Patch {
	if other.Title != nil {
		p.Title = other.Title
	}
	if other.Content != nil {
		p.Content = other.Content
	}
	if other.DocType != nil {
		p.DocType = other.DocType
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.DocType == nil
}

// Apply returns a copy of n with the patch fields merged in.
// LastModified is left to the caller.
func (p Patch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.DocType != nil {
		n.DocType = *p.DocType
	}
	return n
}
