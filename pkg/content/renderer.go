package content

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown source into sanitized HTML.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// MarkdownRenderer renders GitHub-flavoured Markdown with highlighted code
// blocks and sanitizes the result.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer builds a renderer for the given sanitization policy.
func NewMarkdownRenderer(policy Policy) (*MarkdownRenderer, error) {
	bp, err := policy.Build()
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		// Raw HTML is passed through to the sanitizer instead of being
		// replaced by goldmark's "raw HTML omitted" marker.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	return &MarkdownRenderer{md: md, policy: bp}, nil
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Sanitize applies the renderer's policy to an arbitrary HTML fragment.
func (r *MarkdownRenderer) Sanitize(fragment string) string {
	return r.policy.Sanitize(fragment)
}

// LiteralHTML shows text exactly as written.
func LiteralHTML(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(text))
	b.WriteString("</pre>")
	return b.String()
}

var _ Renderer = (*MarkdownRenderer)(nil)
