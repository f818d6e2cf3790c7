package content

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
)

// ErrMissingConfig indicates a content file does not start with a config header.
var ErrMissingConfig = stderrors.New("content file has no config header")

// parseState is the section of a content file being read.
type parseState int

const (
	cInConfig parseState = iota
	cInCSS
	cInJS
	cInBlocks
	cInContent
)

func (s parseState) String() string {
	switch s {
	case cInConfig:
		return "config"
	case cInCSS:
		return "css"
	case cInJS:
		return "js"
	case cInBlocks:
		return "blocks"
	case cInContent:
		return "content"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

// Config keys.
const (
	KeyPath     = "path"
	KeyLinkName = "linkName"
	KeyTitle    = "title"
	KeyTemplate = "template"
)

// Loader parses content files, substituting variables, links and includes
// into every non-header line.
type Loader struct {
	scope    *subst.Scope
	warnings *errors.Collector
}

// NewLoader creates a content loader.
func NewLoader(scope *subst.Scope, warnings *errors.Collector) *Loader {
	if scope == nil {
		scope = subst.NewScope(nil, nil, nil)
	}
	return &Loader{scope: scope, warnings: warnings}
}

// LoadAll parses every content file in order. Pages missing a required config
// field are reported and skipped; a file without a config header is fatal.
func (l *Loader) LoadAll(files []string) ([]site.Page, error) {
	pages := make([]site.Page, 0, len(files))
	for _, file := range files {
		page, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		if missing := page.Missing(); len(missing) > 0 {
			l.warnings.Add(errors.ParseWarning("page config incomplete, skipping page").
				WithContext("file", file).
				WithContext("missing", strings.Join(missing, ",")).
				Build())
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// LoadFile parses one content file.
func (l *Loader) LoadFile(path string) (site.Page, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the source walk.
	if err != nil {
		return site.Page{}, errors.WrapError(err, errors.CategoryIO, "open content file").
			Fatal().
			WithContext("file", path).
			Build()
	}
	defer func() {
		_ = f.Close()
	}()

	page, err := l.parse(f, path)
	if err != nil {
		if stderrors.Is(err, ErrMissingConfig) {
			return site.Page{}, errors.MissingFile("no config found for page").
				WithCause(err).
				WithContext("file", path).
				Build()
		}
		return site.Page{}, errors.WrapError(err, errors.CategoryIO, "read content file").
			Fatal().
			WithContext("file", path).
			Build()
	}
	page.SourcePath = path
	slog.Debug("Page loaded",
		logfields.File(path),
		logfields.Page(page.Path),
		logfields.Template(page.Template),
		logfields.Count(len(page.Blocks)))
	return page, nil
}

// Parse reads a page from r. The first line must be the config header.
func (l *Loader) Parse(r io.Reader) (site.Page, error) {
	return l.parse(r, "")
}

func (l *Loader) parse(r io.Reader, file string) (site.Page, error) {
	p := &pageParser{scope: l.scope, warnings: l.warnings, file: file, lineNo: 1, base: -1}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return site.Page{}, err
		}
		return site.Page{}, ErrMissingConfig
	}
	if strings.TrimSpace(scanner.Text()) != site.HeaderConfig {
		return site.Page{}, ErrMissingConfig
	}

	for scanner.Scan() {
		p.lineNo++
		p.line(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return site.Page{}, err
	}
	return p.finish(), nil
}

type pageParser struct {
	page     site.Page
	scope    *subst.Scope
	warnings *errors.Collector
	file     string
	state    parseState
	lineNo   int

	// body is non-nil once the first body line was seen.
	body []string

	base      int // indent level of block names, -1 until the first block line
	block     *site.Block
	part      *site.Part
	partLines []string
}

func (p *pageParser) line(line string) {
	if p.body != nil {
		p.body = append(p.body, p.scope.Line(line))
		return
	}

	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case site.HeaderCSS:
		p.enter(cInCSS)
		return
	case site.HeaderJS:
		p.enter(cInJS)
		return
	case site.HeaderBlocks:
		p.enter(cInBlocks)
		return
	case site.HeaderContent:
		p.enter(cInContent)
		return
	case "":
		if p.state == cInBlocks {
			p.enter(cInContent)
		}
		return
	}

	switch p.state {
	case cInConfig:
		p.config(p.scope.Line(trimmed))
	case cInCSS:
		p.page.HeadData = append(p.page.HeadData, site.StylesheetTag(p.scope.Line(trimmed)))
	case cInJS:
		p.page.HeadData = append(p.page.HeadData, site.ScriptTag(p.scope.Line(trimmed)))
	case cInBlocks:
		p.blockLine(line, trimmed)
	case cInContent:
		p.body = []string{p.scope.Line(line)}
	}
}

func (p *pageParser) enter(state parseState) {
	if p.state == cInBlocks && state != cInBlocks {
		p.flushBlock()
		p.base = -1
	}
	p.state = state
}

// config applies a key: value line. The key is the text before the first ':'
// and the value the text after the last one.
func (p *pageParser) config(line string) {
	key, _, ok := strings.Cut(line, ":")
	if !ok {
		slog.Debug("Ignoring config line without ':'", logfields.Line(p.lineNo))
		return
	}
	key = strings.TrimSpace(key)
	value := strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
	switch key {
	case KeyPath:
		p.page.Path = value
	case KeyLinkName:
		p.page.LinkName = value
	case KeyTitle:
		p.page.Title = value
	case KeyTemplate:
		p.page.Template = value
	default:
		slog.Debug("Ignoring unknown config key", logfields.Name(key), logfields.Line(p.lineNo))
	}
}

func (p *pageParser) blockLine(raw, trimmed string) {
	level := site.IndentLevel(raw)
	if p.base < 0 {
		p.base = level
	}
	switch {
	case level <= p.base:
		p.flushBlock()
		p.block = &site.Block{Name: trimmed}
	case level == p.base+1:
		if p.block == nil {
			p.textWithoutPart(trimmed)
			return
		}
		p.flushPart()
		p.part = &site.Part{Name: trimmed}
	default:
		if p.part == nil {
			p.textWithoutPart(trimmed)
			return
		}
		p.partLines = append(p.partLines, p.scope.Line(trimmed))
	}
}

func (p *pageParser) textWithoutPart(trimmed string) {
	p.warnings.Add(errors.ParseWarning("block text outside a part, skipping line").
		WithContext("file", p.file).
		WithContext("line", p.lineNo).
		WithContext("text", trimmed).
		Build())
}

// flushPart closes the open part. A part without text lines is the default
// part: its text is its name.
func (p *pageParser) flushPart() {
	if p.part == nil {
		return
	}
	if len(p.partLines) == 0 {
		p.part.Text = p.part.Name
	} else {
		p.part.Text = strings.Join(p.partLines, "\n")
	}
	p.block.Parts = append(p.block.Parts, *p.part)
	p.part = nil
	p.partLines = nil
}

func (p *pageParser) flushBlock() {
	if p.block == nil {
		return
	}
	p.flushPart()
	p.page.Blocks = append(p.page.Blocks, *p.block)
	p.block = nil
}

func (p *pageParser) finish() site.Page {
	p.flushBlock()
	end := len(p.body)
	for end > 0 && strings.TrimSpace(p.body[end-1]) == "" {
		end--
	}
	p.page.Content = strings.Join(p.body[:end], "\n")
	return p.page
}
