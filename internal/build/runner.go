package build

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/observability"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Stages declared with ContinueOnError record their error
// and let the remaining stages run; the first such error is returned at the end.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef, recorder metrics.Recorder) error {
	var deferred error
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.Report.FailedStage = st.Name
			return errors.WrapError(err, errors.CategoryInternal, "build canceled").
				WithContext("stage", string(st.Name)).
				Build()
		}

		warningsBefore := bs.Warnings.Len()
		sctx := observability.WithStage(ctx, string(st.Name))
		t0 := time.Now()
		err := st.Fn(sctx, bs)
		dur := time.Since(t0)

		result := StageResultSuccess
		switch {
		case err != nil:
			result = StageResultFatal
		case bs.Warnings.Len() > warningsBefore:
			result = StageResultWarning
		}
		bs.Report.recordStage(st.Name, dur, result, recorder)
		observability.DebugContext(sctx, "Stage complete",
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(result)))

		if err == nil {
			continue
		}
		if !st.ContinueOnError {
			bs.Report.FailedStage = st.Name
			return err
		}
		if deferred == nil {
			bs.Report.FailedStage = st.Name
			deferred = err
		}
	}
	return deferred
}
