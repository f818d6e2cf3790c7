// Package output writes rendered pages and copies static resources into the
// output directory.
package output

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// ResourcesDir is the directory under the output root receiving resource copies.
const ResourcesDir = "resources"

const (
	dirMode  = 0o755
	fileMode = 0o644
)

var (
	// ErrPathEscapes indicates a page path that is absolute or leaves the output directory.
	ErrPathEscapes = stderrors.New("output path escapes output directory")
	// ErrUnsafeClean indicates a clean request that would remove site sources.
	ErrUnsafeClean = stderrors.New("refusing to clean output directory containing site sources")
)

// Writer writes into one output directory.
type Writer struct {
	dir   string
	clean bool
}

// NewWriter creates a writer for dir. With clean set, Prepare removes dir first.
func NewWriter(dir string, clean bool) *Writer {
	return &Writer{dir: dir, clean: clean}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Prepare creates the output directory, removing it first when cleaning is
// enabled. Cleaning is refused when any of protected lies inside the output
// directory.
func (w *Writer) Prepare(protected ...string) error {
	if w.clean {
		for _, p := range protected {
			if within(w.dir, p) {
				return errors.ConfigError("output.clean would remove site sources").
					WithCause(fmt.Errorf("%w: %s", ErrUnsafeClean, p)).
					WithContext("path", w.dir).
					Build()
			}
		}
		if err := os.RemoveAll(w.dir); err != nil {
			return errors.WrapError(err, errors.CategoryIO, "clean output directory").
				Fatal().
				WithContext("path", w.dir).
				Build()
		}
		slog.Debug("Output directory cleaned", logfields.Path(w.dir))
	}
	if err := os.MkdirAll(w.dir, dirMode); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create output directory").
			Fatal().
			WithContext("path", w.dir).
			Build()
	}
	return nil
}

// PagePath returns the absolute file path for a page path, rejecting paths
// that are absolute or leave the output directory.
func (w *Writer) PagePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathEscapes)
	}
	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	full := filepath.Join(w.dir, cleanRel)
	if !within(w.dir, full) || full == filepath.Clean(w.dir) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}
	return full, nil
}

// WritePages writes every page. A failing page does not stop the others; the
// failures are returned joined. The count of written pages is returned.
func (w *Writer) WritePages(pages []site.Rendered) (int, error) {
	var (
		written int
		errs    []error
	)
	for _, page := range pages {
		if err := w.writePage(page); err != nil {
			slog.Error("Failed to write page", logfields.Page(page.Path), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, joinIOErrors("write pages", errs)
}

func (w *Writer) writePage(page site.Rendered) error {
	full, err := w.PagePath(page.Path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "invalid page path").
			WithContext("page", page.Path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(full), dirMode); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create page directory").
			WithContext("page", page.Path).
			Build()
	}
	if err := atomic.WriteFile(full, strings.NewReader(page.HTML)); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "write page").
			WithContext("page", page.Path).
			Build()
	}
	if err := os.Chmod(full, fileMode); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "set page permissions").
			WithContext("page", page.Path).
			Build()
	}
	slog.Debug("Page written", logfields.Page(page.Path), logfields.Path(full))
	return nil
}

// CopyResources copies each file below resourcesDir to the same relative
// location under <output>/resources, preserving permissions. Failures are
// returned joined after every file was attempted.
func (w *Writer) CopyResources(resourcesDir string, files []string) (int, error) {
	dest := filepath.Join(w.dir, ResourcesDir)
	var (
		copied int
		errs   []error
	)
	for _, src := range files {
		rel, err := filepath.Rel(resourcesDir, src)
		if err != nil || !within(resourcesDir, src) {
			errs = append(errs, errors.NewError(errors.CategoryIO, "resource outside resources directory").
				WithContext("file", src).
				Build())
			continue
		}
		if err := copyFile(src, filepath.Join(dest, rel)); err != nil {
			slog.Error("Failed to copy resource", logfields.File(src), logfields.Error(err))
			errs = append(errs, errors.WrapError(err, errors.CategoryIO, "copy resource").
				WithContext("file", src).
				Build())
			continue
		}
		copied++
	}
	return copied, joinIOErrors("copy resources", errs)
}

// copyFile replaces dst with the contents of src through a temporary file in
// the destination directory, then applies the source permissions.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), dirMode); err != nil {
		return err
	}

	srcFile, err := os.Open(src) // #nosec G304 -- src comes from the source walk.
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := atomic.WriteFile(dst, srcFile); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// joinIOErrors joins per-file failures into one fatal IO error whose cause
// keeps every failure reachable through errors.Is and errors.As.
func joinIOErrors(op string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.WrapError(stderrors.Join(errs...), errors.CategoryIO, op).
		Fatal().
		WithContext("failures", len(errs)).
		Build()
}

// within reports whether path equals dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}
