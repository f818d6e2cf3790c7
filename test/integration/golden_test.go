package integration

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

// TestGolden_BasicSite builds a two-page site exercising inheritance, blocks,
// includes, links, globals, resources and the ignore file, and compares every
// rendered page byte for byte.
func TestGolden_BasicSite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}
	runGoldenTest(t, "../testdata/sites/basic", "../testdata/golden/basic", *updateGolden)
}

func runGoldenTest(t *testing.T, sitePath, goldenDir string, update bool) {
	t.Helper()
	root := setupTestSite(t, sitePath)

	report := buildSite(t, root)
	require.Empty(t, report.Warnings)
	require.Empty(t, report.Findings)

	outDir := filepath.Join(root, "output")
	files := outputFiles(t, outDir)
	listing := filepath.Join(goldenDir, "files.json")

	if update {
		writeJSON(t, listing, files)
		for _, page := range []string{"index.html", "about.html"} {
			data, err := os.ReadFile(filepath.Join(outDir, page))
			require.NoError(t, err)
			require.NoError(t, os.MkdirAll(filepath.Join(goldenDir, "pages"), 0o750))
			require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "pages", page), data, 0o600))
		}
		t.Logf("Updated golden files in %s", goldenDir)
		return
	}

	var want []string
	readJSON(t, listing, &want)
	require.Equal(t, want, files)

	pages, err := os.ReadDir(filepath.Join(goldenDir, "pages"))
	require.NoError(t, err)
	for _, entry := range pages {
		want, err := os.ReadFile(filepath.Join(goldenDir, "pages", entry.Name()))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got), "page %s differs from golden", entry.Name())
	}

	for _, rel := range files {
		if filepath.Dir(rel) == "." {
			continue
		}
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		dst, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		require.Equal(t, src, dst, "resource %s not copied verbatim", rel)
	}
}
