package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/eventstore"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	History string `required:"" help:"History database written by build --history" type:"existingfile"`
	Limit   int    `short:"n" default:"20" help:"Show at most this many builds (0 for all)"`
	JSON    bool   `help:"Print the summaries as JSON"`
}

func (h *HistoryCmd) Run(g *Global) error {
	if h.Limit < 0 {
		return errors.UsageError("--limit must not be negative").
			WithContext("limit", h.Limit).
			Build()
	}
	store, err := eventstore.NewSQLiteStore(h.History)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(g.Ctx, store, h.Limit)
	if err != nil {
		return err
	}

	if h.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		if builds == nil {
			builds = []*eventstore.BuildSummary{}
		}
		return enc.Encode(builds)
	}

	if len(builds) == 0 {
		_, _ = fmt.Fprintln(g.Stdout, "No builds recorded")
		return nil
	}
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tPAGES\tWARNINGS\tFINDINGS\tDURATION\tERROR")
	for _, b := range builds {
		errText := ""
		if b.ErrorStage != "" {
			errText = b.ErrorStage + ": " + b.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			b.BuildID, b.StartedAt.Local().Format(time.DateTime), b.Status,
			b.Pages, b.Warnings, b.Findings, b.Duration.Round(time.Millisecond), errText)
	}
	return tw.Flush()
}
