package build

import (
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/verify"
)

// Outcome is the final result of a build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning" // finished, with warnings or findings
	OutcomeFailed  Outcome = "failed"
)

// StageResult classifies one executed stage.
type StageResult string

const (
	StageResultSuccess StageResult = "success"
	StageResultWarning StageResult = "warning"
	StageResultFatal   StageResult = "fatal"
)

// Report captures what a build did.
type Report struct {
	BuildID   string
	Root      string
	OutputDir string
	Check     bool
	Start     time.Time
	End       time.Time

	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult

	Templates       int
	Pages           int
	FilesWritten    int
	ResourcesCopied int

	Warnings []*errors.ClassifiedError
	Findings []verify.Finding

	Outcome     Outcome
	FailedStage StageName
	Err         error
}

func newReport(buildID string, req Request) *Report {
	return &Report{
		BuildID:        buildID,
		Root:           req.Root,
		OutputDir:      req.OutputDir,
		Check:          req.Check,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// Duration returns the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *Report) recordStage(name StageName, d time.Duration, result StageResult, recorder metrics.Recorder) {
	r.StageDurations[name] = d
	r.StageResults[name] = result
	recorder.ObserveStageDuration(string(name), d)
	recorder.IncStageResult(string(name), metricsResult(result))
}

// finish derives the outcome and stamps the end time.
func (r *Report) finish(err error) {
	r.End = time.Now()
	r.Err = err
	switch {
	case err != nil:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0 || len(r.Findings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

func metricsResult(r StageResult) metrics.ResultLabel {
	switch r {
	case StageResultWarning:
		return metrics.ResultWarning
	case StageResultFatal:
		return metrics.ResultFatal
	default:
		return metrics.ResultSuccess
	}
}

func metricsOutcome(o Outcome) metrics.BuildOutcomeLabel {
	switch o {
	case OutcomeWarning:
		return metrics.BuildOutcomeWarning
	case OutcomeFailed:
		return metrics.BuildOutcomeFailed
	default:
		return metrics.BuildOutcomeSuccess
	}
}
