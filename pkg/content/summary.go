package content

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/notey/pkg/core"
)

// SnippetRunes is the length of a list snippet.
const SnippetRunes = 80

// Summary is the list entry of a note.
type Summary struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	DocType core.DocType `json:"docType"`
	Label   string       `json:"label"`
	Snippet string       `json:"snippet"`
	// Truncated is set when the snippet reached SnippetRunes and is shown
	// with an ellipsis.
	Truncated bool   `json:"truncated"`
	Words     int    `json:"words"`
	When      string `json:"when"`
}

var (
	reHeading  = regexp.MustCompile(`#{1,6}\s`)
	reBold     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic   = regexp.MustCompile(`\*(.*?)\*`)
	reCode     = regexp.MustCompile("`(.*?)`")
	reLink     = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	reBullet   = regexp.MustCompile(`(?m)^\s*[-*+]\s`)
	reNumbered = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
)

// Summarize builds the list entry for n as seen at now.
func Summarize(n core.Note, now time.Time) Summary {
	title := n.Title
	if title == "" {
		title = "Untitled"
	}
	snippet := Snippet(n.Content)
	return Summary{
		ID:        n.ID,
		Title:     title,
		DocType:   n.DocType,
		Label:     CapabilitiesFor(n.DocType).Label,
		Snippet:   snippet,
		Truncated: utf8.RuneCountInString(snippet) >= SnippetRunes,
		Words:     WordCount(n.Content),
		When:      RelativeTime(time.UnixMilli(n.LastModified), now),
	}
}

// Display returns the snippet as the list shows it, with an ellipsis when
// it was cut.
func (s Summary) Display() string {
	if s.Truncated {
		return s.Snippet + "..."
	}
	return s.Snippet
}

// WordCount counts the whitespace-separated words of body.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// Snippet strips common Markdown markup, joins the non-blank lines and cuts
// the result to SnippetRunes.
func Snippet(body string) string {
	s := reHeading.ReplaceAllString(body, "")
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = reCode.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reBullet.ReplaceAllString(s, "")
	s = reNumbered.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return truncateRunes(strings.Join(kept, " "), SnippetRunes)
}

// RelativeTime formats t for the note list, relative to now.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Hour:
		return "Just now"
	case d < 24*time.Hour:
		return t.Format("3:04 PM")
	case d < 7*24*time.Hour:
		return t.Format("Mon")
	default:
		return t.Format("Jan 2")
	}
}
