package content

import (
	"strings"
	"unicode/utf8"
)

const (
	// UntitledNote is the derived title of a plain note whose first line is empty.
	UntitledNote = "Untitled Note"
	// MaxTitleRunes caps titles typed into the rich surface.
	MaxTitleRunes = 100
)

// DeriveTitle returns the title a plain surface assigns after a body edit:
// the first line of the body.
func DeriveTitle(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return UntitledNote
	}
	return line
}

// ClampTitle cuts an explicitly typed title to MaxTitleRunes.
func ClampTitle(title string) string {
	return truncateRunes(title, MaxTitleRunes)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
