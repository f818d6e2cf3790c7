package source

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{ContentDir, IncludeDir, ResourcesDir, TemplatesDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
	return root
}

func rels(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestLoad_FiltersHiddenDirectoriesAndVars(t *testing.T) {
	t.Parallel()
	root := newSite(t)

	writeFile(t, root, "content/index.txt", "config")
	writeFile(t, root, "content/blog/post.txt", "config")
	writeFile(t, root, "content/.draft.txt", "config")
	writeFile(t, root, "content/.hidden/secret.txt", "config")
	writeFile(t, root, "include/vars.txt", "site: X")
	writeFile(t, root, "include/nav.html", "<nav/>")
	writeFile(t, root, "include/.swp", "")
	writeFile(t, root, "resources/css/main.css", "body{}")
	writeFile(t, root, "resources/js/app.js", "")
	writeFile(t, root, "templates/base.html", "<html>")
	writeFile(t, root, "templates/globals.txt", "css")

	lists, err := NewLoader(root, "").Load()
	require.NoError(t, err)

	require.Equal(t, []string{"content/blog/post.txt", "content/index.txt"}, rels(t, root, lists.Content))
	require.Equal(t, []string{"include/nav.html"}, rels(t, root, lists.Include))
	require.Equal(t, []string{"resources/css/main.css", "resources/js/app.js"}, rels(t, root, lists.Resources))
	require.Equal(t, []string{"templates/base.html"}, rels(t, root, lists.Templates))

	for _, list := range [][]string{lists.Content, lists.Include, lists.Resources, lists.Templates} {
		for _, p := range list {
			require.NotEqual(t, '.', rune(filepath.Base(p)[0]), "hidden entry listed: %s", p)
			info, statErr := os.Stat(p)
			require.NoError(t, statErr)
			require.False(t, info.IsDir(), "directory listed: %s", p)
		}
	}
}

func TestLoad_IgnoreFile(t *testing.T) {
	t.Parallel()
	root := newSite(t)

	writeFile(t, root, ".siteignore", "content/drafts/\n*.bak\n")
	writeFile(t, root, "content/index.txt", "config")
	writeFile(t, root, "content/drafts/wip.txt", "config")
	writeFile(t, root, "templates/base.html.bak", "old")
	writeFile(t, root, "templates/base.html", "new")

	lists, err := NewLoader(root, "").Load()
	require.NoError(t, err)
	require.Equal(t, []string{"content/index.txt"}, rels(t, root, lists.Content))
	require.Equal(t, []string{"templates/base.html"}, rels(t, root, lists.Templates))
}

func TestLoad_MissingDirectory(t *testing.T) {
	t.Parallel()
	root := newSite(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, ResourcesDir)))

	_, err := NewLoader(root, "").Load()
	require.Error(t, err)
	require.True(t, stderrors.Is(err, ErrMissingDirectory))
	require.True(t, errors.HasCategory(err, errors.CategoryMissingDirectory))
}

func TestStem(t *testing.T) {
	require.Equal(t, "nav", Stem("/site/include/partials/nav.html"))
	require.Equal(t, "base", Stem("base"))
	require.Equal(t, "archive.tar", Stem("archive.tar.gz"))
}
