// Package commands implements the pagesmith command line.
package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/version"
)

// Execute parses args, runs the selected command and returns the process
// exit code. Usage errors print the usage text and return errors.ExitUsage.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, exit func(int)) int {
	var cli CLI
	global := &Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(&cli,
		kong.Name("pagesmith"),
		kong.Description("Render a template-driven static site from a site root directory."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Bind(global),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return errors.ExitInternal
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) && parseErr.Context != nil {
			_ = parseErr.Context.PrintUsage(true)
		}
		return errors.ExitUsage
	}

	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(stderr)
	return adapter.Report(kctx.Run(global, &cli))
}
