package tables

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// resourceMarkers are searched in this order; the first one present wins.
var resourceMarkers = []string{"/css/", "/img/", "/js/"}

// Resources maps every resource file to its site-relative URL path. The path is
// taken from the first /css/, /img/ or /js/ marker found in the file's location
// below resourcesDir; files outside those folders keep their full relative path.
func Resources(files []string, resourcesDir string) []site.ResourceEntry {
	entries := make([]site.ResourceEntry, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(resourcesDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = file
		}
		urlPath := "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
		entries = append(entries, site.ResourceEntry{
			Filename: filepath.Base(file),
			Path:     urlPath[markerIndex(urlPath):],
		})
	}
	return entries
}

func markerIndex(p string) int {
	for _, marker := range resourceMarkers {
		if i := strings.Index(p, marker); i >= 0 {
			return i
		}
	}
	return 0
}
