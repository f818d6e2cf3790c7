// Package site defines the entities a build is made of: substitution tables,
// templates and pages.
package site

// Variable is a site-global value substituted by {%name}.
type Variable struct {
	Name  string
	Value string
}

// Link maps a page's linkName to its site-relative path, substituted by {$linkName}.
type Link struct {
	Name string
	Path string
}

// ResourceEntry maps a static asset's filename to its site-relative URL path,
// substituted by {$filename} at render time.
type ResourceEntry struct {
	Filename string
	Path     string // begins with /css/, /js/ or /img/ for conventionally placed assets
}

// Include is a fragment expanded in place by {.name}. Text has had variables and
// links substituted once; nested includes are not expanded.
type Include struct {
	Name string
	Text string
}

// BlockTemplate is a named region of a template whose body is instantiated once
// per matching page block.
type BlockTemplate struct {
	Name string
	Body string
}

// Template is a parsed template file.
type Template struct {
	Name           string // file stem
	Inherit        string // parent template name, empty when none
	HeadData       []string
	BlockTemplates []BlockTemplate
	Content        string
	SourcePath     string
}

// Part is a named text fragment of a page block, filling {name} in the block template body.
type Part struct {
	Name string
	Text string
}

// Block is one page-provided instance of a template block.
type Block struct {
	Name  string
	Parts []Part
}

// Page is a parsed content file.
type Page struct {
	Path       string // output path relative to the output directory
	LinkName   string
	Title      string
	Template   string
	HeadData   []string
	Blocks     []Block
	Content    string
	SourcePath string
}

// Rendered is the final HTML of one page.
type Rendered struct {
	Path string
	HTML string
}

// Missing returns the names of required page fields that are empty.
func (p *Page) Missing() []string {
	var missing []string
	if p.Path == "" {
		missing = append(missing, "path")
	}
	if p.LinkName == "" {
		missing = append(missing, "linkName")
	}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Template == "" {
		missing = append(missing, "template")
	}
	return missing
}

// StylesheetTag returns the <link> tag for a CSS file under resources/css.
func StylesheetTag(file string) string {
	return "<link rel='stylesheet' type='text/css' href='resources/css/" + file + "'>"
}

// ScriptTag returns the <script> tag for a JS file under resources/js.
func ScriptTag(file string) string {
	return "<script type='text/javascript' src='resources/js/" + file + "'></script>"
}

// Section header lines shared by template and content files. Headers are
// recognised by exact match of the trimmed line.
const (
	HeaderConfig  = "config"
	HeaderCSS     = "css"
	HeaderJS      = "js"
	HeaderBlocks  = "blocks"
	HeaderContent = "content"
)

// IsSectionHeader reports whether trimmed is one of the css, js, blocks or content headers.
func IsSectionHeader(trimmed string) bool {
	switch trimmed {
	case HeaderCSS, HeaderJS, HeaderBlocks, HeaderContent:
		return true
	}
	return false
}
