package tables

import (
	"bufio"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// ErrMissingGlobals indicates templates/globals.txt does not exist.
var ErrMissingGlobals = stderrors.New("globals.txt not found")

// Globals is the head data applied to every page.
type Globals struct {
	CSS []string
	JS  []string
}

// Tags returns the stylesheet tags followed by the script tags.
func (g Globals) Tags() []string {
	out := make([]string, 0, len(g.CSS)+len(g.JS))
	out = append(out, g.CSS...)
	return append(out, g.JS...)
}

// LoadGlobals reads the global head table from path (templates/globals.txt).
func LoadGlobals(path string, warnings *errors.Collector) (Globals, error) {
	f, err := os.Open(path) // #nosec G304 -- path is derived from the site root.
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Globals{}, errors.MissingFile("templates/globals.txt not found").
				WithCause(ErrMissingGlobals).
				WithContext("path", path).
				Build()
		}
		return Globals{}, errors.WrapError(err, errors.CategoryIO, "open globals.txt").WithContext("path", path).Fatal().Build()
	}
	defer func() {
		_ = f.Close()
	}()

	g, err := ParseGlobals(f, path, warnings)
	if err != nil {
		return Globals{}, errors.WrapError(err, errors.CategoryIO, "read globals.txt").WithContext("path", path).Fatal().Build()
	}
	return g, nil
}

// ParseGlobals parses the css and js sections of a globals file. Either
// section may be absent. File names before any section header are reported and
// skipped.
func ParseGlobals(r io.Reader, file string, warnings *errors.Collector) (Globals, error) {
	var (
		g       Globals
		section string
		lineNo  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case site.HeaderCSS, site.HeaderJS:
			section = line
			continue
		}
		switch section {
		case site.HeaderCSS:
			g.CSS = append(g.CSS, site.StylesheetTag(line))
		case site.HeaderJS:
			g.JS = append(g.JS, site.ScriptTag(line))
		default:
			warnings.Add(errors.ParseWarning("globals entry outside a css or js section").
				WithContext("file", file).
				WithContext("line", lineNo).
				Build())
		}
	}
	return g, scanner.Err()
}
