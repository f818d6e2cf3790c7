// Package source enumerates the four input directories of a site root.
package source

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Directory names under the site root.
const (
	ContentDir   = "content"
	IncludeDir   = "include"
	ResourcesDir = "resources"
	TemplatesDir = "templates"
)

// Reserved file names.
const (
	VarsFile    = "vars.txt"
	GlobalsFile = "globals.txt"
)

// DefaultIgnoreFile holds gitignore-style patterns, relative to the site root,
// excluded from every list.
const DefaultIgnoreFile = ".siteignore"

// ErrMissingDirectory indicates one of the four required subdirectories is absent.
var ErrMissingDirectory = stderrors.New("required site directory not found")

// Lists holds the discovered files of each input directory, in walk order.
type Lists struct {
	Root      string
	Content   []string
	Include   []string
	Resources []string
	Templates []string
}

// Loader walks a site root.
type Loader struct {
	root       string
	ignoreFile string
}

// NewLoader creates a loader for root. An empty ignoreFile selects DefaultIgnoreFile.
func NewLoader(root, ignoreFile string) *Loader {
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}
	return &Loader{root: root, ignoreFile: ignoreFile}
}

// Load walks content/, include/, resources/ and templates/ recursively.
// Directories and hidden entries are never listed; vars.txt is excluded from
// the include list and globals.txt from the template list.
func (l *Loader) Load() (*Lists, error) {
	gi := l.loadIgnore()

	lists := &Lists{Root: l.root}
	targets := []struct {
		dir  string
		dest *[]string
		skip func(name string) bool
	}{
		{ContentDir, &lists.Content, nil},
		{IncludeDir, &lists.Include, func(name string) bool { return name == VarsFile }},
		{ResourcesDir, &lists.Resources, nil},
		{TemplatesDir, &lists.Templates, func(name string) bool { return name == GlobalsFile }},
	}

	for _, target := range targets {
		files, err := l.walk(target.dir, gi, target.skip)
		if err != nil {
			return nil, err
		}
		*target.dest = files
		slog.Debug("Source files discovered", logfields.Name(target.dir), logfields.Count(len(files)))
	}
	return lists, nil
}

func (l *Loader) walk(dir string, gi *ignore.GitIgnore, skip func(string) bool) ([]string, error) {
	base := filepath.Join(l.root, dir)
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, errors.MissingDirectory(fmt.Sprintf("%s/ not found in site root", dir)).
			WithCause(fmt.Errorf("%w: %s", ErrMissingDirectory, base)).
			WithContext("path", base).
			Build()
	}

	files := make([]string, 0)
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != base && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if skip != nil && skip(name) {
			return nil
		}
		if gi != nil {
			if rel, relErr := filepath.Rel(l.root, path); relErr == nil && gi.MatchesPath(filepath.ToSlash(rel)) {
				slog.Debug("Ignoring source file", logfields.File(rel))
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, fmt.Sprintf("walk %s/", dir)).
			WithContext("path", base).
			Build()
	}
	return files, nil
}

func (l *Loader) loadIgnore() *ignore.GitIgnore {
	path := filepath.Join(l.root, l.ignoreFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		slog.Warn("Failed to read ignore file", logfields.File(path), logfields.Error(err))
		return nil
	}
	return gi
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
