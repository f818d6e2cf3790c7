package tables

import (
	"os"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/source"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

// LoadIncludes reads every include fragment and substitutes variables and links
// into it once. Fragments are named by their file stem; {.name} tokens inside a
// fragment are left as written.
func LoadIncludes(files []string, vars []site.Variable, links []site.Link) ([]site.Include, error) {
	includes := make([]site.Include, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file) // #nosec G304 -- file comes from the source walk.
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryIO, "read include").
				Fatal().
				WithContext("file", file).
				Build()
		}
		includes = append(includes, site.Include{
			Name: source.Stem(file),
			Text: subst.ReplaceVars(string(data), vars, links),
		})
	}
	return includes, nil
}
