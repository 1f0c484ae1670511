package content

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// Converter turns an HTML fragment back into Markdown source.
type Converter interface {
	ToMarkdown(html string) (string, error)
}

// HTMLConverter converts rich editor HTML into Markdown using ATX headings,
// "**" strong, "*" emphasis and "-" bullets, with GitHub-flavoured tables,
// strikethrough and task lists.
type HTMLConverter struct {
	conv *md.Converter
}

// NewHTMLConverter creates a converter.
func NewHTMLConverter() *HTMLConverter {
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		StrongDelimiter:  "**",
		EmDelimiter:      "*",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
		Fence:            "```",
	})
	conv.Use(plugin.GitHubFlavored())
	return &HTMLConverter{conv: conv}
}

// ToMarkdown implements Converter.
func (c *HTMLConverter) ToMarkdown(html string) (string, error) {
	out, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

var _ Converter = (*HTMLConverter)(nil)
