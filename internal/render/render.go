// Package render assembles the final HTML of each page from its resolved
// template, the global head tags and the resource table.
package render

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

const headTag = "<head>"

// Renderer renders pages against a fixed set of resolved templates.
type Renderer struct {
	templates map[string]*site.Template
	globals   []string
	resources *strings.Replacer
}

// New creates a renderer. templates must already be resolved; when two share a
// name the first is used.
func New(templates []site.Template, globals []string, resources []site.ResourceEntry) *Renderer {
	byName := make(map[string]*site.Template, len(templates))
	for i := range templates {
		if _, dup := byName[templates[i].Name]; !dup {
			byName[templates[i].Name] = &templates[i]
		}
	}
	var pairs subst.Pairs
	for _, res := range resources {
		pairs.Add(subst.ResourcePrefix, strings.TrimSpace(res.Filename), res.Path)
	}
	oldnew := pairs.OldNew()
	return &Renderer{
		templates: byName,
		globals:   globals,
		resources: strings.NewReplacer(oldnew...),
	}
}

// Validate checks that every page names an existing template.
func (r *Renderer) Validate(pages []site.Page) error {
	for i := range pages {
		if _, ok := r.templates[pages[i].Template]; !ok {
			return unknownTemplate(&pages[i])
		}
	}
	return nil
}

// All renders every page in order.
func (r *Renderer) All(pages []site.Page) ([]site.Rendered, error) {
	out := make([]site.Rendered, 0, len(pages))
	for i := range pages {
		rendered, err := r.Page(&pages[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

// Page renders one page:
//
//  1. the page body replaces {content} in the template body;
//  2. page then template head data is inserted after <head>;
//  3. every {blockName} slot is filled with the page's blocks of that name,
//     each instantiated from the block template by replacing {partName};
//  4. the title and global head tags are inserted after <head>;
//  5. {$filename} resource tokens are replaced by resource paths.
//
// Replace-all steps make a single pass each, so inserted text is never
// rescanned within the step that inserted it.
func (r *Renderer) Page(p *site.Page) (site.Rendered, error) {
	tpl, ok := r.templates[p.Template]
	if !ok {
		return site.Rendered{}, unknownTemplate(p)
	}

	out := strings.ReplaceAll(tpl.Content, subst.ContentToken, p.Content)

	if head := headData(p, tpl); head != "" {
		out = strings.Replace(out, headTag, headTag+"\n"+head, 1)
	}

	out = fillBlocks(out, tpl.BlockTemplates, p.Blocks)

	var title strings.Builder
	title.WriteString(headTag)
	title.WriteString("\n<title>")
	title.WriteString(strings.TrimSpace(p.Title))
	title.WriteString("</title>")
	for _, tag := range r.globals {
		title.WriteString("\n")
		title.WriteString(tag)
	}
	out = strings.Replace(out, headTag, title.String(), 1)

	out = r.resources.Replace(out)

	slog.Debug("Page rendered", logfields.Page(p.Path), logfields.Template(tpl.Name))
	return site.Rendered{Path: p.Path, HTML: out}, nil
}

func headData(p *site.Page, tpl *site.Template) string {
	if len(p.HeadData) == 0 && len(tpl.HeadData) == 0 {
		return ""
	}
	tags := make([]string, 0, len(p.HeadData)+len(tpl.HeadData))
	tags = append(tags, p.HeadData...)
	tags = append(tags, tpl.HeadData...)
	return strings.Join(tags, "\n")
}

// fillBlocks replaces each block template's slot with the concatenation of
// the matching page blocks, in page order. Slots without page blocks become
// empty.
func fillBlocks(out string, templates []site.BlockTemplate, blocks []site.Block) string {
	if len(templates) == 0 {
		return out
	}
	var slots subst.Pairs
	for _, bt := range templates {
		var filled strings.Builder
		for _, block := range blocks {
			if block.Name != bt.Name {
				continue
			}
			var parts subst.Pairs
			for _, part := range block.Parts {
				parts.Add("{", strings.TrimSpace(part.Name), part.Text)
			}
			filled.WriteString(parts.Replace(bt.Body))
		}
		slots.Add("{", strings.TrimSpace(bt.Name), filled.String())
	}
	return slots.Replace(out)
}

func unknownTemplate(p *site.Page) error {
	return errors.RenderError("page uses an unknown template").
		WithContext("page", p.Path).
		WithContext("template", p.Template).
		WithContext("file", p.SourcePath).
		Build()
}
