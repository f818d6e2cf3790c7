package build

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagesmith/internal/eventstore"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/observability"
)

// Request contains all inputs required to execute a site build.
type Request struct {
	// Root is the site root holding content/, include/, resources/ and templates/.
	Root string

	// OutputDir receives rendered pages and resources.
	OutputDir string

	// Clean removes OutputDir before writing.
	Clean bool

	// IgnoreFile names the gitignore-style file, relative to Root, whose
	// patterns are excluded from the source lists.
	IgnoreFile string

	// Markdown configures the Markdown pass; nil skips it.
	Markdown *markdown.Options

	// Check runs every stage except the output writer.
	Check bool

	// Version is recorded in the build history.
	Version string
}

// Service runs builds.
type Service struct {
	recorder metrics.Recorder
	store    eventstore.Store
	logger   *slog.Logger
	newID    func() string
}

// NewService creates a service without metrics or history.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithHistory makes every build append its events to store.
func (s *Service) WithHistory(store eventstore.Store) *Service {
	s.store = store
	return s
}

// WithLogger sets the logger warnings are reported through.
func (s *Service) WithLogger(l *slog.Logger) *Service {
	s.logger = l
	return s
}

// Run executes the pipeline for req. The returned report is never nil; when
// err is non-nil the report's Outcome is OutcomeFailed and FailedStage names
// the stage that stopped the build.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	buildID := s.newID()
	report := newReport(buildID, req)
	warnings := errors.NewCollector(s.logger)
	bs := newBuildState(req, report, warnings)

	log := slog.With(logfields.BuildID(buildID))
	log.Info("Build started", logfields.Path(req.Root), slog.Bool("check", req.Check))
	s.record(ctx, buildID, eventstore.BuildStarted{Root: req.Root, OutputDir: req.OutputDir, Version: req.Version})

	err := runStages(observability.WithBuildID(ctx, buildID), bs, pipeline(req), s.recorder)

	report.Warnings = warnings.Items()
	report.finish(err)
	s.observe(report)

	if err != nil {
		log.Error("Build failed",
			logfields.Stage(string(report.FailedStage)),
			logfields.DurationMS(float64(report.Duration().Milliseconds())),
			logfields.Error(err))
		s.record(ctx, buildID, eventstore.BuildFailed{
			Stage:      string(report.FailedStage),
			Category:   string(errors.GetCategory(err)),
			Error:      err.Error(),
			DurationMS: report.Duration().Milliseconds(),
		})
		return report, err
	}

	log.Info("Build completed",
		slog.String("outcome", string(report.Outcome)),
		slog.Int("pages", report.Pages),
		slog.Int("files_written", report.FilesWritten),
		slog.Int("warnings", len(report.Warnings)),
		slog.Int("findings", len(report.Findings)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	s.record(ctx, buildID, eventstore.BuildCompleted{
		Status:          string(report.Outcome),
		Pages:           report.Pages,
		FilesWritten:    report.FilesWritten,
		ResourcesCopied: report.ResourcesCopied,
		Warnings:        len(report.Warnings),
		Findings:        len(report.Findings),
		DurationMS:      report.Duration().Milliseconds(),
	})
	return report, nil
}

func (s *Service) observe(r *Report) {
	s.recorder.ObserveBuildDuration(r.Duration())
	s.recorder.IncBuildOutcome(metricsOutcome(r.Outcome))
	s.recorder.AddPagesRendered(r.Pages)
	s.recorder.AddFilesWritten(r.FilesWritten)
	s.recorder.AddResourcesCopied(r.ResourcesCopied)
	for _, w := range r.Warnings {
		s.recorder.IncWarning(string(w.Category()))
	}
}

// record appends a history event. History failures are logged and never
// fail the build.
func (s *Service) record(ctx context.Context, buildID string, payload any) {
	if s.store == nil {
		return
	}
	if err := eventstore.Record(context.WithoutCancel(ctx), s.store, buildID, payload); err != nil {
		slog.Warn("Failed to record build history", logfields.BuildID(buildID), logfields.Error(err))
	}
}
