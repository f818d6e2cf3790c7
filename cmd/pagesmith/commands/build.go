package commands

import (
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/eventstore"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/version"
)

// SiteFlags are shared by the commands operating on a site root.
type SiteFlags struct {
	Root        string `arg:"" type:"existingdir" help:"Site root directory (holding content/, include/, resources/, templates/)"`
	History     string `help:"Record the build in this SQLite history database (overrides history.path)" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the build (overrides metrics.textfile)" type:"path"`
	NoMarkdown  bool   `name:"no-markdown" help:"Skip the Markdown pass"`
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteFlags
	Output string `short:"o" help:"Output directory (overrides output.directory, default <root>/output)" type:"path"`
	Clean  bool   `help:"Remove the output directory before writing (overrides output.clean)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	report, err := runSite(g, root, &b.SiteFlags, func(cfg *config.Config, req *build.Request) {
		if b.Output != "" {
			req.OutputDir = b.Output
		}
		req.Clean = req.Clean || b.Clean
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Built %d pages into %s (%d resources, %d warnings, %d findings) in %s\n",
		report.FilesWritten, report.OutputDir, report.ResourcesCopied,
		len(report.Warnings), len(report.Findings), report.Duration().Round(time.Millisecond))
	return nil
}

// runSite loads the configuration for flags.Root, wires history and metrics,
// and runs one build. adjust applies command-specific overrides to the request.
func runSite(g *Global, cli *CLI, flags *SiteFlags, adjust func(*config.Config, *build.Request)) (*build.Report, error) {
	cfg, err := config.Load(flags.Root, cli.Config)
	if err != nil {
		return nil, err
	}
	cli.applyLogging(g, cfg)

	req := build.Request{
		Root:       flags.Root,
		OutputDir:  config.Resolve(flags.Root, cfg.Output.Directory),
		Clean:      cfg.Output.Clean,
		IgnoreFile: cfg.Source.IgnoreFile,
		Version:    version.Version,
	}
	if cfg.Markdown.Enabled && !flags.NoMarkdown {
		req.Markdown = &markdown.Options{
			GFM:         cfg.Markdown.GFM,
			Unsafe:      cfg.Markdown.Unsafe,
			HardWraps:   cfg.Markdown.HardWraps,
			InlineParts: cfg.Markdown.InlineParts,
		}
	}
	if adjust != nil {
		adjust(cfg, &req)
	}

	svc := build.NewService()

	historyPath := flags.History
	if historyPath == "" {
		historyPath = config.Resolve(flags.Root, cfg.History.Path)
	}
	if historyPath != "" {
		store, err := eventstore.NewSQLiteStore(historyPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				slog.Warn("Failed to close history database", logfields.Path(historyPath), logfields.Error(cerr))
			}
		}()
		svc.WithHistory(store)
	}

	metricsPath := flags.MetricsFile
	if metricsPath == "" {
		metricsPath = config.Resolve(flags.Root, cfg.Metrics.Textfile)
	}
	var registry *prom.Registry
	if metricsPath != "" {
		registry = prom.NewRegistry()
		svc.WithRecorder(metrics.NewPrometheusRecorder(registry))
	}

	report, runErr := svc.Run(g.Ctx, req)

	if registry != nil {
		if err := metrics.WriteTextfile(registry, metricsPath); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(metricsPath), logfields.Error(err))
		}
	}
	return report, runErr
}
