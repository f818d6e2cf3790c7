package tables

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// ErrMissingVars indicates include/vars.txt does not exist.
var ErrMissingVars = stderrors.New("vars.txt not found")

const varSeparator = ": "

// LoadVariables reads the variable table from path (include/vars.txt).
func LoadVariables(path string, warnings *errors.Collector) ([]site.Variable, error) {
	f, err := os.Open(path) // #nosec G304 -- path is derived from the site root.
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.MissingFile("include/vars.txt not found").
				WithCause(ErrMissingVars).
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryIO, "open vars.txt").WithContext("path", path).Fatal().Build()
	}
	defer func() {
		_ = f.Close()
	}()

	vars, err := ParseVariables(f, path, warnings)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, "read vars.txt").WithContext("path", path).Fatal().Build()
	}
	return vars, nil
}

// ParseVariables parses "name: value" lines. Blank lines and # comments are
// skipped; malformed lines are reported to warnings and skipped.
func ParseVariables(r io.Reader, file string, warnings *errors.Collector) ([]site.Variable, error) {
	vars := make([]site.Variable, 0)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(raw, varSeparator)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			warnings.Add(errors.ParseWarning(fmt.Sprintf("malformed variable line, expected 'name: value': %q", line)).
				WithContext("file", file).
				WithContext("line", lineNo).
				Build())
			continue
		}
		vars = append(vars, site.Variable{Name: name, Value: strings.TrimSpace(value)})
	}
	return vars, scanner.Err()
}
