package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

const skeleton = "<html><head></head><body>{content}</body></html>"

func TestPage_ContentAndTitle(t *testing.T) {
	t.Parallel()
	r := New([]site.Template{{Name: "t", Content: skeleton}}, nil, nil)

	got, err := r.Page(&site.Page{Path: "index.html", Title: " Home ", Template: "t", Content: "<p>x</p>"})
	require.NoError(t, err)
	require.Equal(t, "index.html", got.Path)
	require.Equal(t, "<html><head>\n<title>Home</title></head><body><p>x</p></body></html>", got.HTML)
}

func TestPage_HeadOrder(t *testing.T) {
	t.Parallel()
	tpl := site.Template{Name: "t", Content: skeleton, HeadData: []string{"<tpl>"}}
	globals := []string{site.StylesheetTag("main.css"), site.ScriptTag("app.js")}
	r := New([]site.Template{tpl}, globals, nil)

	got, err := r.Page(&site.Page{Title: "T", Template: "t", HeadData: []string{"<page>"}})
	require.NoError(t, err)

	want := strings.Join([]string{
		"<html><head>",
		"<title>T</title>",
		site.StylesheetTag("main.css"),
		site.ScriptTag("app.js"),
		"<page>",
		"<tpl></head><body></body></html>",
	}, "\n")
	require.Equal(t, want, got.HTML)
	require.Equal(t, 1, strings.Count(got.HTML, "<title>"))
}

func TestPage_OnlyFirstHeadIsUsed(t *testing.T) {
	t.Parallel()
	tpl := site.Template{Name: "t", Content: "<head></head><pre><head></pre>"}
	got, err := New([]site.Template{tpl}, nil, nil).Page(&site.Page{Title: "T", Template: "t"})
	require.NoError(t, err)
	require.Equal(t, "<head>\n<title>T</title></head><pre><head></pre>", got.HTML)
}

func TestPage_BlocksWithParts(t *testing.T) {
	t.Parallel()
	tpl := site.Template{
		Name:    "t",
		Content: "<ul>{item}</ul><footer>{footer}</footer>",
		BlockTemplates: []site.BlockTemplate{
			{Name: "item", Body: "<li>{label}:{href}</li>"},
			{Name: "footer", Body: "<p>{text}</p>"},
		},
	}
	page := &site.Page{Template: "t", Blocks: []site.Block{
		{Name: "item", Parts: []site.Part{{Name: "label", Text: "Home"}, {Name: "href", Text: "/"}}},
		{Name: "other", Parts: []site.Part{{Name: "label", Text: "ignored"}}},
		{Name: "item", Parts: []site.Part{{Name: " label ", Text: "About"}, {Name: "href", Text: "/a"}}},
	}}

	got, err := New([]site.Template{tpl}, nil, nil).Page(page)
	require.NoError(t, err)
	require.Equal(t, "<ul><li>Home:/</li><li>About:/a</li></ul><footer></footer>", got.HTML)
}

func TestPage_BlockTextIsNotRescanned(t *testing.T) {
	t.Parallel()
	tpl := site.Template{
		Name:    "t",
		Content: "{a}|{b}",
		BlockTemplates: []site.BlockTemplate{
			{Name: "a", Body: "{x}"},
			{Name: "b", Body: "B"},
		},
	}
	page := &site.Page{Template: "t", Blocks: []site.Block{
		{Name: "a", Parts: []site.Part{{Name: "x", Text: "{b}"}}},
		{Name: "b"},
	}}

	got, err := New([]site.Template{tpl}, nil, nil).Page(page)
	require.NoError(t, err)
	require.Equal(t, "{b}|B", got.HTML)
}

func TestPage_Resources(t *testing.T) {
	t.Parallel()
	tpl := site.Template{Name: "t", Content: "<img src='{$logo.png}'>{$unknown.png}"}
	resources := []site.ResourceEntry{{Filename: "logo.png", Path: "/img/logo.png"}}

	got, err := New([]site.Template{tpl}, nil, resources).Page(&site.Page{Template: "t"})
	require.NoError(t, err)
	require.Equal(t, "<img src='/img/logo.png'>{$unknown.png}", got.HTML)
}

func TestValidateAndUnknownTemplate(t *testing.T) {
	t.Parallel()
	r := New([]site.Template{{Name: "t", Content: skeleton}}, nil, nil)
	pages := []site.Page{{Path: "a.html", Template: "t"}, {Path: "b.html", Template: "nope"}}

	err := r.Validate(pages)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryRender))

	_, err = r.All(pages)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	page, _ := classified.Context().GetString("page")
	require.Equal(t, "b.html", page)
}
