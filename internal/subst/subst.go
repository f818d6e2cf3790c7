// Package subst implements the token substitution primitives shared by every
// loader and by the renderer.
//
// Substitution is plain text replacement, not a template language. Each table
// is applied in a single left-to-right pass: text produced by a replacement is
// never rescanned by the same table. Variables are replaced before links, so a
// variable value may carry a {$name} link token. When two entries share a name
// the earlier one wins.
package subst

import (
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// Token prefixes.
const (
	VarPrefix      = "{%"
	LinkPrefix     = "{$"
	IncludePrefix  = "{."
	ContentToken   = "{content}"
	ResourcePrefix = LinkPrefix
)

// Token builds a token from its opening sequence ("{%", "{$", "{." or "{") and a name.
func Token(open, name string) string {
	return open + name + "}"
}

// ReplaceVars replaces every {%name} with its variable value, then every
// {$name} with its link path.
func ReplaceVars(text string, vars []site.Variable, links []site.Link) string {
	return linksReplacer(links).Replace(varsReplacer(vars).Replace(text))
}

// InsertIncludes replaces every {.name} with the include's expanded text.
func InsertIncludes(text string, includes []site.Include) string {
	return includesReplacer(includes).Replace(text)
}

// Scope holds the load-time tables with their replacers built once, so that
// per-line substitution over a whole site stays linear in its size.
type Scope struct {
	Vars     []site.Variable
	Links    []site.Link
	Includes []site.Include

	vars     *strings.Replacer
	links    *strings.Replacer
	includes *strings.Replacer
}

// NewScope prepares a scope for load-time substitution.
func NewScope(vars []site.Variable, links []site.Link, includes []site.Include) *Scope {
	return &Scope{
		Vars:     vars,
		Links:    links,
		Includes: includes,
		vars:     varsReplacer(vars),
		links:    linksReplacer(links),
		includes: includesReplacer(includes),
	}
}

// ReplaceVars is ReplaceVars bound to the scope's tables.
func (s *Scope) ReplaceVars(text string) string {
	return s.links.Replace(s.vars.Replace(text))
}

// InsertIncludes is InsertIncludes bound to the scope's includes.
func (s *Scope) InsertIncludes(text string) string {
	return s.includes.Replace(text)
}

// Line applies load-time substitution to one source line. Lines that cannot
// hold a token are returned untouched; variables and links are replaced before
// includes are inserted. Unbound tokens such as {content} survive verbatim.
func (s *Scope) Line(line string) string {
	if !strings.Contains(line, "{") || !strings.Contains(line, "}") {
		return line
	}
	if strings.Contains(line, VarPrefix) {
		line = s.vars.Replace(line)
	}
	if strings.Contains(line, LinkPrefix) {
		line = s.links.Replace(line)
	}
	if strings.Contains(line, IncludePrefix) {
		line = s.includes.Replace(line)
	}
	return line
}

// Pairs accumulates old/new token pairs for a single-pass replacement.
type Pairs struct {
	oldnew []string
}

// Add registers a replacement of Token(open, name) by value.
func (p *Pairs) Add(open, name, value string) {
	p.oldnew = append(p.oldnew, Token(open, name), value)
}

// Len returns the number of registered pairs.
func (p *Pairs) Len() int {
	return len(p.oldnew) / 2
}

// OldNew returns the pairs in strings.NewReplacer argument order.
func (p *Pairs) OldNew() []string {
	return p.oldnew
}

// Replace applies all pairs to text in one pass.
func (p *Pairs) Replace(text string) string {
	if len(p.oldnew) == 0 {
		return text
	}
	return strings.NewReplacer(p.oldnew...).Replace(text)
}

func varsReplacer(vars []site.Variable) *strings.Replacer {
	var p Pairs
	for _, v := range vars {
		p.Add(VarPrefix, v.Name, v.Value)
	}
	return strings.NewReplacer(p.oldnew...)
}

func linksReplacer(links []site.Link) *strings.Replacer {
	var p Pairs
	for _, l := range links {
		p.Add(LinkPrefix, l.Name, l.Path)
	}
	return strings.NewReplacer(p.oldnew...)
}

func includesReplacer(includes []site.Include) *strings.Replacer {
	var p Pairs
	for _, inc := range includes {
		p.Add(IncludePrefix, inc.Name, inc.Text)
	}
	return strings.NewReplacer(p.oldnew...)
}
