package content

import (
	"context"

	"github.com/aretw0/notey/pkg/core"
)

// Sanitizer cleans an untrusted HTML fragment.
type Sanitizer interface {
	Sanitize(fragment string) string
}

// Pipeline bundles the render and convert capabilities used by every surface.
type Pipeline struct {
	renderer  Renderer
	converter Converter
	sanitizer Sanitizer
	policy    Policy
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPolicy sets the sanitization policy of the default renderer.
func WithPolicy(p Policy) PipelineOption {
	return func(pl *Pipeline) {
		pl.policy = p
	}
}

// WithRenderer replaces the Markdown renderer.
func WithRenderer(r Renderer) PipelineOption {
	return func(pl *Pipeline) {
		pl.renderer = r
	}
}

// WithConverter replaces the HTML to Markdown converter.
func WithConverter(c Converter) PipelineOption {
	return func(pl *Pipeline) {
		pl.converter = c
	}
}

// NewPipeline creates a pipeline. Without options it renders with goldmark
// under DefaultPolicy and converts with html-to-markdown.
func NewPipeline(opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(p)
	}

	if p.renderer == nil {
		r, err := NewMarkdownRenderer(p.policy)
		if err != nil {
			return nil, err
		}
		p.renderer = r
	}
	if p.converter == nil {
		p.converter = NewHTMLConverter()
	}
	if s, ok := p.renderer.(Sanitizer); ok {
		p.sanitizer = s
	} else {
		bp, err := p.policy.Build()
		if err != nil {
			return nil, err
		}
		p.sanitizer = bp
	}
	return p, nil
}

// Render converts Markdown into sanitized HTML.
func (p *Pipeline) Render(ctx context.Context, markdown string) (string, error) {
	return p.renderer.Render(ctx, markdown)
}

// ToMarkdown sanitizes an edited HTML projection and converts it to Markdown.
func (p *Pipeline) ToMarkdown(fragment string) (string, error) {
	return p.converter.ToMarkdown(p.sanitizer.Sanitize(fragment))
}

// Preview returns the side preview of n. Doc types without a preview yield "".
func (p *Pipeline) Preview(ctx context.Context, n core.Note) (string, error) {
	switch CapabilitiesFor(n.DocType).Preview {
	case PreviewLiteral:
		return LiteralHTML(n.Content), nil
	case PreviewMarkdown:
		return p.renderer.Render(ctx, n.Content)
	default:
		return "", nil
	}
}

// Policy returns the configured sanitization policy.
func (p *Pipeline) Policy() Policy {
	return p.policy
}
