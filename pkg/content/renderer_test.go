package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
)

func TestMarkdownRenderer(t *testing.T) {
	ctx := context.Background()
	r, err := content.NewMarkdownRenderer(content.DefaultPolicy())
	require.NoError(t, err)

	t.Run("Renders Emphasis", func(t *testing.T) {
		out, err := r.Render(ctx, "**bold** text")
		require.NoError(t, err)
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("Renders GFM Tables", func(t *testing.T) {
		out, err := r.Render(ctx, "| a | b |\n|---|---|\n| 1 | 2 |\n")
		require.NoError(t, err)
		assert.Contains(t, out, "<table>")
	})

	t.Run("Highlights Fenced Code With Classes", func(t *testing.T) {
		out, err := r.Render(ctx, "```go\nfunc main() {}\n```\n")
		require.NoError(t, err)
		assert.Contains(t, out, `class="chroma"`)
		assert.Contains(t, out, "func")
	})

	t.Run("Strips Active Content", func(t *testing.T) {
		src := "Hello\n\n<script>alert(1)</script>\n\n" +
			`<a href="https://example.com" onclick="steal()">link</a>` + "\n\n" +
			"[x](javascript:alert(2))\n"
		out, err := r.Render(ctx, src)
		require.NoError(t, err)

		assert.NotContains(t, out, "<script")
		assert.NotContains(t, out, "onclick")
		assert.NotContains(t, out, "javascript:")
		assert.Contains(t, out, "Hello")
	})

	t.Run("Honours Cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Render(cctx, "x")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("Strict Removes All Markup", func(t *testing.T) {
		r, err := content.NewMarkdownRenderer(content.Policy{Base: content.PolicyStrict})
		require.NoError(t, err)

		out, err := r.Render(ctx, "# Title")
		require.NoError(t, err)
		assert.NotContains(t, out, "<h1")
		assert.Contains(t, out, "Title")
	})

	t.Run("Basic Keeps Structure", func(t *testing.T) {
		r, err := content.NewMarkdownRenderer(content.Policy{Base: content.PolicyBasic})
		require.NoError(t, err)

		out, err := r.Render(ctx, "# Title\n\n- item\n")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "<li>item</li>")
	})

	t.Run("Unknown Base", func(t *testing.T) {
		_, err := content.Policy{Base: "permissive"}.Build()
		require.Error(t, err)
	})
}

func TestHTMLConverter(t *testing.T) {
	conv := content.NewHTMLConverter()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"Strong", "<p><strong>bold</strong> text</p>", "**bold** text"},
		{"Emphasis", "<p><em>soft</em></p>", "*soft*"},
		{"ATX Heading", "<h1>Title</h1>", "# Title"},
		{"Dash Bullets", "<ul><li>a</li><li>b</li></ul>", "- a\n- b"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToMarkdown(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormattedRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := content.NewPipeline()
	require.NoError(t, err)

	rendered, err := p.Render(ctx, "**bold** text")
	require.NoError(t, err)

	back, err := p.ToMarkdown(rendered)
	require.NoError(t, err)
	assert.Equal(t, "**bold** text", back)
}

func TestPipelinePreview(t *testing.T) {
	ctx := context.Background()
	p, err := content.NewPipeline()
	require.NoError(t, err)

	t.Run("Plain Text Is Literal", func(t *testing.T) {
		out, err := p.Preview(ctx, core.Note{DocType: core.DocTypeText, Content: "# Title <b>"})
		require.NoError(t, err)
		assert.Equal(t, "<pre># Title &lt;b&gt;</pre>", out)
	})

	t.Run("Markdown Renders", func(t *testing.T) {
		out, err := p.Preview(ctx, core.Note{DocType: core.DocTypeMarkdown, Content: "# Title"})
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
	})

	t.Run("Formatted Has No Preview", func(t *testing.T) {
		out, err := p.Preview(ctx, core.Note{DocType: core.DocTypeFormatted, Content: "# Title"})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("Sanitizes Rich Input Before Converting", func(t *testing.T) {
		out, err := p.ToMarkdown(`<p onclick="x()">hi<script>alert(1)</script></p>`)
		require.NoError(t, err)
		assert.Equal(t, "hi", out)
	})
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		dt        core.DocType
		surface   content.Surface
		preview   bool
		roundTrip bool
		label     string
	}{
		{core.DocTypeText, content.SurfacePlain, true, false, "TXT"},
		{core.DocTypeMarkdown, content.SurfacePlain, true, false, "MD"},
		{core.DocTypeFormatted, content.SurfaceRich, false, true, "RICH"},
		{core.DocType("bogus"), content.SurfacePlain, true, false, "TXT"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dt), func(t *testing.T) {
			c := content.CapabilitiesFor(tt.dt)
			assert.Equal(t, tt.surface, c.Surface)
			assert.Equal(t, tt.preview, c.SupportsPreview())
			assert.Equal(t, tt.roundTrip, c.RoundTrip)
			assert.Equal(t, tt.label, c.Label)
		})
	}
}
