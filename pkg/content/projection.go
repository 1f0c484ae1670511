package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholder is shown by a rich surface whose projection is empty. It is
// never stored.
const Placeholder = "Start writing your formatted content..."

// Projection is the derived HTML view of a note's canonical content.
type Projection struct {
	NoteID      string `json:"note_id"`
	HTML        string `json:"html"`
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// NewProjection wraps rendered HTML for a note.
func NewProjection(noteID, fragment string) Projection {
	p := Projection{NoteID: noteID, HTML: fragment, Empty: IsBlankHTML(fragment)}
	if p.Empty {
		p.Placeholder = Placeholder
	}
	return p
}

// media elements count as content even without text.
var media = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Video:  true,
	atom.Audio:  true,
	atom.Iframe: true,
	atom.Hr:     true,
	atom.Input:  true,
	atom.Svg:    true,
}

// IsBlankHTML reports whether fragment has no visible text and no media.
// "<p><br></p>", which rich editors leave behind after clearing, is blank.
func IsBlankHTML(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return true
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.TrimSpace(fragment) == ""
	}

	for _, n := range nodes {
		if hasContent(n) {
			return false
		}
	}
	return true
}

func hasContent(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			return true
		}
	case html.ElementNode:
		if media[n.DataAtom] {
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasContent(c) {
			return true
		}
	}
	return false
}
