package build

import (
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/source"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
	"git.home.luguber.info/inful/pagesmith/internal/tables"
	"git.home.luguber.info/inful/pagesmith/internal/verify"
)

// BuildState carries the outputs of each stage to the stages after it.
// Tables and templates are read-only once their stage has finished; pages
// are mutated only by the Markdown pass.
type BuildState struct {
	Request  Request
	Report   *Report
	Warnings *errors.Collector

	Sources   *source.Lists
	Vars      []site.Variable
	Links     []site.Link
	Includes  []site.Include
	Globals   tables.Globals
	Resources []site.ResourceEntry
	Scope     *subst.Scope

	Templates []site.Template
	Pages     []site.Page
	Rendered  []site.Rendered
	Findings  []verify.Finding
}

func newBuildState(req Request, report *Report, warnings *errors.Collector) *BuildState {
	return &BuildState{Request: req, Report: report, Warnings: warnings}
}
