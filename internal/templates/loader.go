package templates

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/source"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

const inheritDirective = "inherit"

// parseState is the section of a template file being read.
type parseState int

const (
	// inContent is the initial state. Headers and blank lines are still
	// recognised until the first body line is seen.
	inContent parseState = iota
	inInherit
	inCSS
	inJS
	inBlocks
)

func (s parseState) String() string {
	switch s {
	case inContent:
		return "content"
	case inInherit:
		return "inherit"
	case inCSS:
		return "css"
	case inJS:
		return "js"
	case inBlocks:
		return "blocks"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

// Loader parses template files, substituting variables, links and includes
// into every non-header line.
type Loader struct {
	scope    *subst.Scope
	warnings *errors.Collector
}

// NewLoader creates a template loader.
func NewLoader(scope *subst.Scope, warnings *errors.Collector) *Loader {
	if scope == nil {
		scope = subst.NewScope(nil, nil, nil)
	}
	return &Loader{scope: scope, warnings: warnings}
}

// LoadAll parses every file in order. When two files share a stem the first
// one is kept and the later one is reported.
func (l *Loader) LoadAll(files []string) ([]site.Template, error) {
	templates := make([]site.Template, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		tpl, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[tpl.Name]; dup {
			l.warnings.Add(errors.ParseWarning("duplicate template name, keeping the first").
				WithContext("template", tpl.Name).
				WithContext("file", file).
				WithContext("kept", first).
				Build())
			continue
		}
		seen[tpl.Name] = file
		templates = append(templates, tpl)
	}
	return templates, nil
}

// LoadFile parses one template file. The template is named by the file stem.
func (l *Loader) LoadFile(path string) (site.Template, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the source walk.
	if err != nil {
		return site.Template{}, errors.WrapError(err, errors.CategoryIO, "open template").
			Fatal().
			WithContext("file", path).
			Build()
	}
	defer func() {
		_ = f.Close()
	}()

	tpl, err := l.Parse(source.Stem(path), f)
	if err != nil {
		return site.Template{}, errors.WrapError(err, errors.CategoryIO, "read template").
			Fatal().
			WithContext("file", path).
			Build()
	}
	tpl.SourcePath = path
	slog.Debug("Template loaded",
		logfields.Template(tpl.Name),
		logfields.Parent(tpl.Inherit),
		logfields.Count(len(tpl.BlockTemplates)))
	return tpl, nil
}

// Parse reads a template named name from r.
func (l *Loader) Parse(name string, r io.Reader) (site.Template, error) {
	p := &templateParser{
		tpl:   site.Template{Name: name},
		scope: l.scope,
		outer: -1,
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if p.inherit(line) {
				continue
			}
		}
		p.line(line)
	}
	if err := scanner.Err(); err != nil {
		return site.Template{}, err
	}
	return p.finish(), nil
}

type templateParser struct {
	tpl   site.Template
	scope *subst.Scope
	state parseState

	// body is non-nil once the first body line was seen.
	body []string

	outer      int // indent level of block names, -1 until the first block line
	blockOpen  bool
	blockName  string
	blockLines []string
}

// inherit handles an "inherit <name>" first line. The parent is the last
// whitespace-separated token.
func (p *templateParser) inherit(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != inheritDirective {
		return false
	}
	p.tpl.Inherit = fields[len(fields)-1]
	p.state = inInherit
	return true
}

func (p *templateParser) line(line string) {
	if p.body != nil {
		p.body = append(p.body, p.scope.Line(line))
		return
	}

	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case site.HeaderCSS:
		p.enter(inCSS)
		return
	case site.HeaderJS:
		p.enter(inJS)
		return
	case site.HeaderBlocks:
		p.enter(inBlocks)
		return
	case site.HeaderContent:
		p.enter(inContent)
		return
	case "":
		if p.state == inBlocks {
			p.enter(inContent)
		}
		return
	}

	switch p.state {
	case inCSS:
		p.tpl.HeadData = append(p.tpl.HeadData, site.StylesheetTag(p.scope.Line(trimmed)))
	case inJS:
		p.tpl.HeadData = append(p.tpl.HeadData, site.ScriptTag(p.scope.Line(trimmed)))
	case inBlocks:
		p.blockLine(line, trimmed)
	case inContent, inInherit:
		p.state = inContent
		p.body = []string{p.scope.Line(line)}
	}
}

func (p *templateParser) enter(state parseState) {
	if p.state == inBlocks && state != inBlocks {
		p.flushBlock()
		p.outer = -1
	}
	p.state = state
}

// blockLine treats a line at the outer level as a block name and anything
// indented deeper as a line of that block's body.
func (p *templateParser) blockLine(raw, trimmed string) {
	level := site.IndentLevel(raw)
	if p.outer < 0 {
		p.outer = level
	}
	if level <= p.outer {
		p.flushBlock()
		p.blockOpen = true
		p.blockName = trimmed
		return
	}
	p.blockLines = append(p.blockLines, p.scope.Line(trimmed))
}

func (p *templateParser) flushBlock() {
	if !p.blockOpen {
		return
	}
	p.tpl.BlockTemplates = append(p.tpl.BlockTemplates, site.BlockTemplate{
		Name: p.blockName,
		Body: strings.Join(p.blockLines, "\n"),
	})
	p.blockOpen = false
	p.blockName = ""
	p.blockLines = nil
}

func (p *templateParser) finish() site.Template {
	p.flushBlock()
	p.tpl.Content = joinBody(p.body)
	return p.tpl
}

// joinBody joins body lines with newlines, dropping trailing blank lines.
func joinBody(lines []string) string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
