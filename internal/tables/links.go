package tables

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

const (
	linkNameKey = "linkName:"
	pathKey     = "path:"
)

// LoadLinks scans the config section of every content file for its linkName
// and path. Files lacking either are reported and omitted. Unreadable files are
// reported and skipped. A repeated linkName replaces the earlier path in place.
func LoadLinks(contentFiles []string, warnings *errors.Collector) []site.Link {
	links := make([]site.Link, 0, len(contentFiles))
	index := make(map[string]int, len(contentFiles))

	for _, file := range contentFiles {
		name, path, err := scanLinkFile(file)
		if err != nil {
			warnings.Add(errors.WrapError(err, errors.CategoryIO, "cannot read content file for links").
				Warning().
				WithContext("file", file).
				Build())
			continue
		}
		if name == "" || path == "" {
			warnings.Add(errors.ParseWarning("linkName or path is not set in content file").
				WithContext("file", filepath.Base(file)).
				Build())
			continue
		}
		if i, dup := index[name]; dup {
			warnings.Add(errors.ParseWarning("duplicate linkName, later page wins").
				WithContext("link_name", name).
				WithContext("file", file).
				WithContext("previous_path", links[i].Path).
				Build())
			links[i].Path = path
			continue
		}
		index[name] = len(links)
		links = append(links, site.Link{Name: name, Path: path})
	}
	return links
}

func scanLinkFile(file string) (string, string, error) {
	f, err := os.Open(file) // #nosec G304 -- file comes from the source walk.
	if err != nil {
		return "", "", err
	}
	defer func() {
		_ = f.Close()
	}()
	return ScanLink(f)
}

// ScanLink reads config lines until both linkName and path were seen. The scan
// stops at the next section header; blank lines inside the config section are
// skipped, as the content loader does.
// Values are the text after the last ':' of the line, trimmed.
func ScanLink(r io.Reader) (name, path string, err error) {
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if trimmed == site.HeaderConfig {
				continue
			}
		}
		if trimmed == "" {
			continue
		}
		if site.IsSectionHeader(trimmed) {
			break
		}
		switch {
		case strings.HasPrefix(trimmed, linkNameKey):
			name = lastField(trimmed)
		case strings.HasPrefix(trimmed, pathKey):
			path = lastField(trimmed)
		}
		if name != "" && path != "" {
			break
		}
	}
	return name, path, scanner.Err()
}

// lastField returns the text after the last ':' of line, trimmed.
func lastField(line string) string {
	return strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
}
