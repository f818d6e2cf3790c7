package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default <root>/site.yaml)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build the site under <root> into the output directory"`
	Check   CheckCmd   `cmd:"" help:"Run every build stage except writing output and report findings"`
	History HistoryCmd `cmd:"" help:"List builds recorded in a history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	setupLogging(g.Stderr, level, config.LogFormatText)
	return nil
}

// applyLogging reconfigures logging from the site configuration. -v always
// wins over the configured level.
func (c *CLI) applyLogging(g *Global, cfg *config.Config) {
	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	setupLogging(g.Stderr, level, cfg.Logging.Format)
}

func setupLogging(w io.Writer, level slog.Level, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
