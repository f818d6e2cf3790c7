package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

func parse(t *testing.T, scope *subst.Scope, src string) site.Template {
	t.Helper()
	tpl, err := NewLoader(scope, nil).Parse("t", strings.NewReader(src))
	require.NoError(t, err)
	return tpl
}

func TestParse_BodyOnly(t *testing.T) {
	t.Parallel()
	tpl := parse(t, nil, "<html>\n  <body>{content}</body>\n</html>\n\n")
	require.Empty(t, tpl.Inherit)
	require.Empty(t, tpl.HeadData)
	require.Empty(t, tpl.BlockTemplates)
	require.Equal(t, "<html>\n  <body>{content}</body>\n</html>", tpl.Content)
}

func TestParse_FullTemplate(t *testing.T) {
	t.Parallel()
	src := strings.Join([]string{
		"inherit  base",
		"css",
		"page.css",
		"js",
		"page.js",
		"blocks",
		"\titem",
		"\t\t<li>{label}:{href}</li>",
		"\tfooter",
		"\t\t<p>",
		"\t\t{text}",
		"\t\t</p>",
		"",
		"<ul>{item}</ul>",
		"",
		"css",
		"{footer}",
	}, "\n")

	tpl := parse(t, nil, src)
	require.Equal(t, "base", tpl.Inherit)
	require.Equal(t, []string{site.StylesheetTag("page.css"), site.ScriptTag("page.js")}, tpl.HeadData)
	require.Equal(t, []site.BlockTemplate{
		{Name: "item", Body: "<li>{label}:{href}</li>"},
		{Name: "footer", Body: "<p>\n{text}\n</p>"},
	}, tpl.BlockTemplates)
	require.Equal(t, "<ul>{item}</ul>\n\ncss\n{footer}", tpl.Content, "headers after the body starts are body text")
}

func TestParse_InheritThenBody(t *testing.T) {
	t.Parallel()
	tpl := parse(t, nil, "inherit base\n<p>hi</p>\n")
	require.Equal(t, "base", tpl.Inherit)
	require.Equal(t, "<p>hi</p>", tpl.Content)
}

func TestParse_SpaceIndentedBlocks(t *testing.T) {
	t.Parallel()
	src := "blocks\n    nav\n        <a href='{href}'>{label}</a>\n    empty\ncontent\n{nav}{empty}"
	tpl := parse(t, nil, src)
	require.Equal(t, []site.BlockTemplate{
		{Name: "nav", Body: "<a href='{href}'>{label}</a>"},
		{Name: "empty", Body: ""},
	}, tpl.BlockTemplates)
	require.Equal(t, "{nav}{empty}", tpl.Content)
}

func TestParse_Substitution(t *testing.T) {
	t.Parallel()
	scope := subst.NewScope(
		[]site.Variable{{Name: "site", Value: "MySite"}},
		[]site.Link{{Name: "about", Path: "about.html"}},
		[]site.Include{{Name: "nav", Text: "<nav/>"}},
	)
	src := strings.Join([]string{
		"blocks",
		"\tlink",
		"\t\t<a href='{$about}'>{label}</a>",
		"",
		"<h1>{%site}</h1>",
		"{.nav}",
		"<main>{content}</main>",
		"{%unknown} {$unknown} {.unknown}",
	}, "\n")

	tpl := parse(t, scope, src)
	require.Equal(t, "<a href='about.html'>{label}</a>", tpl.BlockTemplates[0].Body)
	require.Equal(t, "<h1>MySite</h1>\n<nav/>\n<main>{content}</main>\n{%unknown} {$unknown} {.unknown}", tpl.Content)
}

func TestLoadAll_DuplicateNamesKeepFirst(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "page.html")
	second := filepath.Join(dir, "b", "page.tpl")
	for path, body := range map[string]string{first: "first", second: "second"} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	warnings := errors.NewCollector(nil)
	templates, err := NewLoader(nil, warnings).LoadAll([]string{first, second})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "page", templates[0].Name)
	require.Equal(t, "first", templates[0].Content)
	require.Equal(t, first, templates[0].SourcePath)
	require.Equal(t, 1, warnings.Len())
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := NewLoader(nil, nil).LoadFile(filepath.Join(t.TempDir(), "gone.html"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryIO))
}
