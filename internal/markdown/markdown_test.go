package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/site"
)

func TestConvert(t *testing.T) {
	t.Parallel()
	c := New(DefaultOptions())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "  \n", ""},
		{"paragraph", "hello *world*", "<p>hello <em>world</em></p>"},
		{"heading id", "# About us", `<h1 id="about-us">About us</h1>`},
		{"raw html", "<div class=\"x\">hi</div>", "<div class=\"x\">hi</div>"},
		{"strikethrough", "~~old~~", "<p><del>old</del></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := c.Convert(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_SafeModeOmitsRawHTML(t *testing.T) {
	t.Parallel()
	c := New(Options{})
	got, err := c.Convert("<div>hi</div>")
	require.NoError(t, err)
	require.Equal(t, "<!-- raw HTML omitted -->", got)
}

func TestConvert_HardWrapsAndRawHTML(t *testing.T) {
	t.Parallel()
	c := New(Options{Unsafe: true, HardWraps: true})
	got, err := c.Convert("a\nb <span>x</span>")
	require.NoError(t, err)
	require.Equal(t, "<p>a<br>\nb <span>x</span></p>", got)
}

func TestConvertInline(t *testing.T) {
	t.Parallel()
	c := New(DefaultOptions())

	got, err := c.ConvertInline("Home")
	require.NoError(t, err)
	require.Equal(t, "Home", got)

	got, err = c.ConvertInline("**About**")
	require.NoError(t, err)
	require.Equal(t, "<strong>About</strong>", got)

	got, err = c.ConvertInline("one\n\ntwo")
	require.NoError(t, err)
	require.Equal(t, "<p>one</p>\n<p>two</p>", got)
}

func TestApply(t *testing.T) {
	t.Parallel()
	pages := []site.Page{{
		Path:    "index.html",
		Content: "# Welcome",
		Blocks: []site.Block{{
			Name:  "item",
			Parts: []site.Part{{Name: "label", Text: "Home"}, {Name: "href", Text: "/"}},
		}},
	}}

	require.NoError(t, New(DefaultOptions()).Apply(pages))
	require.Equal(t, `<h1 id="welcome">Welcome</h1>`, pages[0].Content)
	require.Equal(t, "Home", pages[0].Blocks[0].Parts[0].Text)
	require.Equal(t, "/", pages[0].Blocks[0].Parts[1].Text)
}

func TestApply_BlockPartsWithoutInlining(t *testing.T) {
	t.Parallel()
	pages := []site.Page{{Blocks: []site.Block{{Name: "b", Parts: []site.Part{{Name: "p", Text: "Home"}}}}}}

	require.NoError(t, New(Options{GFM: true, Unsafe: true}).Apply(pages))
	require.Equal(t, "<p>Home</p>", pages[0].Blocks[0].Parts[0].Text)
}
