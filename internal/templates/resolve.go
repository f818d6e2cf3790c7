package templates

import (
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

// Resolve flattens template inheritance. Parents are resolved before they are
// merged into a child, so chains of any depth yield the same result regardless
// of file order. An unknown parent or a cycle is a fatal inheritance error.
// The input slice is not modified.
func Resolve(templates []site.Template) ([]site.Template, error) {
	r := &resolver{
		byName:   make(map[string]*site.Template, len(templates)),
		done:     make(map[string]*site.Template, len(templates)),
		visiting: make(map[string]bool),
	}
	for i := range templates {
		if _, dup := r.byName[templates[i].Name]; !dup {
			r.byName[templates[i].Name] = &templates[i]
		}
	}

	out := make([]site.Template, 0, len(templates))
	for i := range templates {
		resolved, err := r.resolve(templates[i].Name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, *resolved)
	}
	return out, nil
}

type resolver struct {
	byName   map[string]*site.Template
	done     map[string]*site.Template
	visiting map[string]bool
}

func (r *resolver) resolve(name string, chain []string) (*site.Template, error) {
	if t, ok := r.done[name]; ok {
		return t, nil
	}
	chain = append(chain, name)
	if r.visiting[name] {
		return nil, errors.InheritanceError("template inheritance cycle").
			WithContext("template", chain[0]).
			WithContext("chain", strings.Join(chain, " -> ")).
			Build()
	}
	t, ok := r.byName[name]
	if !ok {
		child := ""
		if len(chain) > 1 {
			child = chain[len(chain)-2]
		}
		return nil, errors.InheritanceError("unknown parent template").
			WithContext("template", child).
			WithContext("parent", name).
			Build()
	}

	if t.Inherit == "" {
		flat := *t
		r.done[name] = &flat
		return &flat, nil
	}

	r.visiting[name] = true
	parent, err := r.resolve(t.Inherit, chain)
	delete(r.visiting, name)
	if err != nil {
		return nil, err
	}

	flat := site.Template{
		Name:           t.Name,
		Inherit:        t.Inherit,
		HeadData:       concat(t.HeadData, parent.HeadData),
		BlockTemplates: concat(t.BlockTemplates, parent.BlockTemplates),
		Content:        strings.ReplaceAll(parent.Content, subst.ContentToken, t.Content),
		SourcePath:     t.SourcePath,
	}
	r.done[name] = &flat
	return &flat, nil
}

func concat[T any](child, parent []T) []T {
	out := make([]T, 0, len(child)+len(parent))
	out = append(out, child...)
	return append(out, parent...)
}
