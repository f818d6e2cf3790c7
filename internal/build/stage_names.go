package build

import "context"

// StageName is a strongly-typed identifier for a build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in execution order.
const (
	StageLoadSources      StageName = "load_sources"
	StageLoadTables       StageName = "load_tables"
	StageLoadTemplates    StageName = "load_templates"
	StageResolveTemplates StageName = "resolve_templates"
	StageLoadContent      StageName = "load_content"
	StageMarkdown         StageName = "markdown"
	StageValidate         StageName = "validate"
	StageRender           StageName = "render"
	StageVerify           StageName = "verify"
	StagePrepareOutput    StageName = "prepare_output"
	StageWriteOutput      StageName = "write_output"
	StageCopyResources    StageName = "copy_resources"
)

// Stage is one step of the pipeline. A returned error is fatal unless the
// stage is declared with ContinueOnError.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
	// ContinueOnError lets later stages run after this one failed; the build
	// still fails with the first such error.
	ContinueOnError bool
}
