package build

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/observability"
	"git.home.luguber.info/inful/pagesmith/internal/output"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/source"
	"git.home.luguber.info/inful/pagesmith/internal/subst"
	"git.home.luguber.info/inful/pagesmith/internal/tables"
	"git.home.luguber.info/inful/pagesmith/internal/templates"
	"git.home.luguber.info/inful/pagesmith/internal/verify"
)

// pipeline returns the stages for req. Check runs stop before the output writer.
func pipeline(req Request) []StageDef {
	stages := []StageDef{
		{Name: StageLoadSources, Fn: stageLoadSources},
		{Name: StageLoadTables, Fn: stageLoadTables},
		{Name: StageLoadTemplates, Fn: stageLoadTemplates},
		{Name: StageResolveTemplates, Fn: stageResolveTemplates},
		{Name: StageLoadContent, Fn: stageLoadContent},
	}
	if req.Markdown != nil {
		stages = append(stages, StageDef{Name: StageMarkdown, Fn: stageMarkdown})
	}
	stages = append(stages,
		StageDef{Name: StageValidate, Fn: stageValidate},
		StageDef{Name: StageRender, Fn: stageRender},
		StageDef{Name: StageVerify, Fn: stageVerify},
	)
	if !req.Check {
		stages = append(stages,
			StageDef{Name: StagePrepareOutput, Fn: stagePrepareOutput},
			StageDef{Name: StageWriteOutput, Fn: stageWriteOutput, ContinueOnError: true},
			StageDef{Name: StageCopyResources, Fn: stageCopyResources, ContinueOnError: true},
		)
	}
	return stages
}

func stageLoadSources(ctx context.Context, bs *BuildState) error {
	lists, err := source.NewLoader(bs.Request.Root, bs.Request.IgnoreFile).Load()
	if err != nil {
		return err
	}
	bs.Sources = lists
	observability.DebugContext(ctx, "Sources discovered",
		slog.Int("content", len(lists.Content)),
		slog.Int("include", len(lists.Include)),
		slog.Int("resources", len(lists.Resources)),
		slog.Int("templates", len(lists.Templates)))
	return nil
}

// stageLoadTables builds the resource, variable, link, include and global
// head tables, in that order; includes depend on variables and links.
func stageLoadTables(ctx context.Context, bs *BuildState) error {
	root := bs.Request.Root
	bs.Resources = tables.Resources(bs.Sources.Resources, filepath.Join(root, source.ResourcesDir))

	vars, err := tables.LoadVariables(filepath.Join(root, source.IncludeDir, source.VarsFile), bs.Warnings)
	if err != nil {
		return err
	}
	bs.Vars = vars

	bs.Links = tables.LoadLinks(bs.Sources.Content, bs.Warnings)

	includes, err := tables.LoadIncludes(bs.Sources.Include, bs.Vars, bs.Links)
	if err != nil {
		return err
	}
	bs.Includes = includes

	globals, err := tables.LoadGlobals(filepath.Join(root, source.TemplatesDir, source.GlobalsFile), bs.Warnings)
	if err != nil {
		return err
	}
	bs.Globals = globals

	bs.Scope = subst.NewScope(bs.Vars, bs.Links, bs.Includes)
	observability.DebugContext(ctx, "Tables loaded",
		slog.Int("vars", len(bs.Vars)),
		slog.Int("links", len(bs.Links)),
		slog.Int("includes", len(bs.Includes)),
		slog.Int("resources", len(bs.Resources)))
	return nil
}

func stageLoadTemplates(_ context.Context, bs *BuildState) error {
	loaded, err := templates.NewLoader(bs.Scope, bs.Warnings).LoadAll(bs.Sources.Templates)
	if err != nil {
		return err
	}
	bs.Templates = loaded
	return nil
}

func stageResolveTemplates(_ context.Context, bs *BuildState) error {
	resolved, err := templates.Resolve(bs.Templates)
	if err != nil {
		return err
	}
	bs.Templates = resolved
	bs.Report.Templates = len(resolved)
	return nil
}

func stageLoadContent(_ context.Context, bs *BuildState) error {
	pages, err := content.NewLoader(bs.Scope, bs.Warnings).LoadAll(bs.Sources.Content)
	if err != nil {
		return err
	}
	bs.Pages = pages
	return nil
}

func stageMarkdown(_ context.Context, bs *BuildState) error {
	return markdown.New(*bs.Request.Markdown).Apply(bs.Pages)
}

func stageValidate(_ context.Context, bs *BuildState) error {
	return bs.renderer().Validate(bs.Pages)
}

func stageRender(_ context.Context, bs *BuildState) error {
	rendered, err := bs.renderer().All(bs.Pages)
	if err != nil {
		return err
	}
	bs.Rendered = rendered
	bs.Report.Pages = len(rendered)
	return nil
}

// stageVerify checks every rendered page. Findings never fail the build.
func stageVerify(ctx context.Context, bs *BuildState) error {
	v := verify.New(bs.Vars, bs.Links, bs.Includes, bs.Resources)
	for i, page := range bs.Rendered {
		for _, f := range v.Page(page, bs.Pages[i].Title) {
			observability.WarnContext(observability.WithPage(ctx, f.Page), "Verification finding",
				logfields.Kind(string(f.Kind)),
				slog.String("message", f.Message))
			bs.Findings = append(bs.Findings, f)
		}
	}
	bs.Report.Findings = bs.Findings
	return nil
}

// stagePrepareOutput creates (and optionally cleans) the output directory.
// Cleaning is refused when it would remove any site source directory.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	root := bs.Request.Root
	return bs.writer().Prepare(
		filepath.Join(root, source.ContentDir),
		filepath.Join(root, source.IncludeDir),
		filepath.Join(root, source.ResourcesDir),
		filepath.Join(root, source.TemplatesDir),
	)
}

func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	w := bs.writer()
	written, err := w.WritePages(bs.Rendered)
	bs.Report.FilesWritten = written
	observability.InfoContext(ctx, "Pages written", logfields.Count(written), logfields.Path(w.Dir()))
	return err
}

func stageCopyResources(ctx context.Context, bs *BuildState) error {
	copied, err := bs.writer().CopyResources(filepath.Join(bs.Request.Root, source.ResourcesDir), bs.Sources.Resources)
	bs.Report.ResourcesCopied = copied
	observability.DebugContext(ctx, "Resources copied", logfields.Count(copied))
	return err
}

func (bs *BuildState) renderer() *render.Renderer {
	return render.New(bs.Templates, bs.Globals.Tags(), bs.Resources)
}

func (bs *BuildState) writer() *output.Writer {
	return output.NewWriter(bs.Request.OutputDir, bs.Request.Clean)
}
