// Package content is the document-type-aware content pipeline. It maps each
// doc type to the editing surface and transforms it needs, renders Markdown
// to sanitized HTML, converts rich HTML back to Markdown and keeps the rich
// editor's projection from fighting the user's edits.
package content

import (
	"github.com/aretw0/notey/pkg/core"
)

// Surface is the kind of editor a note is edited in.
type Surface string

const (
	// SurfacePlain edits canonical content directly.
	SurfacePlain Surface = "plain"
	// SurfaceRich edits an HTML projection that is converted back to Markdown.
	SurfaceRich Surface = "rich"
)

// PreviewMode describes the read-only side projection of a note.
type PreviewMode string

const (
	PreviewNone     PreviewMode = "none"
	PreviewLiteral  PreviewMode = "literal"
	PreviewMarkdown PreviewMode = "markdown"
)

// Capabilities is the capability set of one doc type.
type Capabilities struct {
	DocType   core.DocType
	Surface   Surface
	Preview   PreviewMode
	RoundTrip bool
	Label     string
}

// SupportsPreview reports whether a side preview is offered at all.
func (c Capabilities) SupportsPreview() bool {
	return c.Preview != PreviewNone
}

var capabilities = map[core.DocType]Capabilities{
	core.DocTypeText: {
		DocType: core.DocTypeText,
		Surface: SurfacePlain,
		Preview: PreviewLiteral,
		Label:   "TXT",
	},
	core.DocTypeMarkdown: {
		DocType: core.DocTypeMarkdown,
		Surface: SurfacePlain,
		Preview: PreviewMarkdown,
		Label:   "MD",
	},
	core.DocTypeFormatted: {
		DocType:   core.DocTypeFormatted,
		Surface:   SurfaceRich,
		Preview:   PreviewNone,
		RoundTrip: true,
		Label:     "RICH",
	},
}

// CapabilitiesFor returns the capability set for dt. Unknown doc types are
// treated as plain text, which is how the repository repairs them on load.
func CapabilitiesFor(dt core.DocType) Capabilities {
	if c, ok := capabilities[dt]; ok {
		return c
	}
	return capabilities[core.DocTypeText]
}
