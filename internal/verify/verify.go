// Package verify inspects rendered pages for assembly defects: a missing or
// repeated <title> in <head>, and substitution tokens that name a table entry
// but survived rendering.
package verify

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

// Kind classifies a finding.
type Kind string

const (
	KindTitle           Kind = "title"
	KindUnresolvedToken Kind = "unresolved_token"
	KindParse           Kind = "parse"
)

// Finding is one defect in a rendered page.
type Finding struct {
	Page    string
	Kind    Kind
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Page, f.Kind, f.Message)
}

// Verifier checks pages against the tables they were rendered with.
type Verifier struct {
	bound map[string]map[string]struct{} // token prefix -> names
}

// New creates a verifier. Links and resources share the {$ prefix.
func New(vars []site.Variable, links []site.Link, includes []site.Include, resources []site.ResourceEntry) *Verifier {
	v := &Verifier{bound: map[string]map[string]struct{}{
		subst.VarPrefix:     {},
		subst.LinkPrefix:    {},
		subst.IncludePrefix: {},
	}}
	for _, x := range vars {
		v.bound[subst.VarPrefix][x.Name] = struct{}{}
	}
	for _, x := range links {
		v.bound[subst.LinkPrefix][x.Name] = struct{}{}
	}
	for _, x := range resources {
		v.bound[subst.ResourcePrefix][strings.TrimSpace(x.Filename)] = struct{}{}
	}
	for _, x := range includes {
		v.bound[subst.IncludePrefix][x.Name] = struct{}{}
	}
	return v
}

// Page checks one rendered page whose configured title is title.
func (v *Verifier) Page(page site.Rendered, title string) []Finding {
	var findings []Finding
	add := func(kind Kind, format string, args ...any) {
		findings = append(findings, Finding{Page: page.Path, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	for _, token := range v.unresolved(page.HTML) {
		add(KindUnresolvedToken, "bound token %s left in output", token)
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		add(KindParse, "cannot parse HTML: %v", err)
		return findings
	}

	var inHead, elsewhere []*html.Node
	var walk func(n *html.Node, underHead bool)
	walk = func(n *html.Node, underHead bool) {
		if n.Type == html.ElementNode && n.Namespace == "" {
			switch n.DataAtom {
			case atom.Head:
				underHead = true
			case atom.Title:
				if underHead {
					inHead = append(inHead, n)
				} else {
					elsewhere = append(elsewhere, n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, underHead)
		}
	}
	walk(doc, false)

	switch {
	case len(inHead) == 0:
		add(KindTitle, "no <title> inside <head>")
	case len(inHead) > 1:
		add(KindTitle, "%d <title> elements inside <head>", len(inHead))
	default:
		want := html.UnescapeString(strings.TrimSpace(title))
		if got := textOf(inHead[0]); got != want {
			add(KindTitle, "<title> is %q, page title is %q", got, want)
		}
	}
	if len(elsewhere) > 0 {
		add(KindTitle, "%d <title> elements outside <head>", len(elsewhere))
	}
	return findings
}

// unresolved returns the tokens in text whose name is bound in a table, in
// order of appearance.
func (v *Verifier) unresolved(text string) []string {
	var found []string
	for rest := text; ; {
		i := strings.IndexByte(rest, '{')
		if i < 0 || i+2 > len(rest) {
			return found
		}
		rest = rest[i:]
		prefix := rest[:2]
		names, ok := v.bound[prefix]
		if !ok {
			rest = rest[1:]
			continue
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return found
		}
		token := rest[:end+1]
		if _, bound := names[token[2:end]]; bound {
			found = append(found, token)
		}
		rest = rest[1:]
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}
