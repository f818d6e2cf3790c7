// Package markdown converts page bodies and block part text from Markdown to
// HTML with goldmark.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// Options controls the Markdown dialect and rendering.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool
	// Unsafe passes raw HTML through instead of replacing it with a comment.
	Unsafe bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// InlineParts unwraps block part text that renders to a single paragraph,
	// so parts can fill inline slots such as <li>{label}</li>.
	InlineParts bool
}

// DefaultOptions returns the options used when the site config sets none.
func DefaultOptions() Options {
	return Options{GFM: true, Unsafe: true, InlineParts: true}
}

// Converter renders Markdown to HTML.
type Converter struct {
	md   goldmark.Markdown
	opts Options
}

// New builds a converter for opts.
func New(opts Options) *Converter {
	var extensions []goldmark.Extender
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}
	var rendererOpts []goldmark.Option
	htmlOpts := make([]renderer.Option, 0, 2)
	if opts.Unsafe {
		htmlOpts = append(htmlOpts, gmhtml.WithUnsafe())
	}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}
	if len(htmlOpts) > 0 {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}, rendererOpts...)...)
	return &Converter{md: md, opts: opts}
}

// Convert renders src as a Markdown document. The trailing newline goldmark
// emits is dropped; empty input yields empty output.
func (c *Converter) Convert(src string) (string, error) {
	out, _, err := c.render(src)
	return out, err
}

// ConvertInline renders src and, when the document is a single paragraph,
// strips the enclosing <p> element.
func (c *Converter) ConvertInline(src string) (string, error) {
	out, single, err := c.render(src)
	if err != nil || !single {
		return out, err
	}
	return strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>"), nil
}

func (c *Converter) render(src string) (string, bool, error) {
	if strings.TrimSpace(src) == "" {
		return "", false, nil
	}
	source := []byte(src)
	doc := c.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", false, err
	}
	single := doc.ChildCount() == 1 && doc.FirstChild().Kind() == gmast.KindParagraph
	return strings.TrimRight(buf.String(), "\n"), single, nil
}

// Apply converts every page body and block part text in place. Part text goes
// through ConvertInline when InlineParts is set.
func (c *Converter) Apply(pages []site.Page) error {
	for i := range pages {
		page := &pages[i]
		body, err := c.Convert(page.Content)
		if err != nil {
			return c.renderError(err, page, "")
		}
		page.Content = body

		for b := range page.Blocks {
			parts := page.Blocks[b].Parts
			for j := range parts {
				var text string
				if c.opts.InlineParts {
					text, err = c.ConvertInline(parts[j].Text)
				} else {
					text, err = c.Convert(parts[j].Text)
				}
				if err != nil {
					return c.renderError(err, page, page.Blocks[b].Name+"."+parts[j].Name)
				}
				parts[j].Text = text
			}
		}
	}
	return nil
}

func (c *Converter) renderError(err error, page *site.Page, part string) error {
	b := errors.WrapError(err, errors.CategoryRender, "convert markdown").
		Fatal().
		WithContext("file", page.SourcePath).
		WithContext("page", page.Path)
	if part != "" {
		b = b.WithContext("part", part)
	}
	return b.Build()
}
