package workflows

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// WorkflowRunner executes a correction pass over every library
type WorkflowRunner struct {
	workflow  *CorrectionWorkflow
	libraries []media.Library
	observers []SummaryObserver
	dryRun    bool
	logger    *slog.Logger
}

// NewWorkflowRunner creates a runner visiting the global library, then the user library
func NewWorkflowRunner(workflow *CorrectionWorkflow, logger *slog.Logger) *WorkflowRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkflowRunner{
		workflow:  workflow,
		libraries: media.Libraries,
		dryRun:    workflow.opts.DryRun,
		logger:    logger,
	}
}

// AddObserver registers an observer notified after every run
func (r *WorkflowRunner) AddObserver(o SummaryObserver) {
	r.observers = append(r.observers, o)
}

// Run performs one correction pass. A library whose selection fails is
// reported with its error and the next library is still attempted; the
// returned error joins every library failure. The summary is always non-nil.
func (r *WorkflowRunner) Run(ctx context.Context, runID string) (*pipeline.Summary, error) {
	logger := r.logger.With("run_id", runID)
	logger.Info("starting correction pass", "workflow", r.workflow.Name(), "dry_run", r.dryRun)

	summary := &pipeline.Summary{
		RunID:     runID,
		DryRun:    r.dryRun,
		StartedAt: time.Now().UTC(),
	}

	var errs []error
	for _, library := range r.libraries {
		if err := ctx.Err(); err != nil {
			summary.Libraries = append(summary.Libraries, pipeline.LibraryReport{Library: library, Error: err.Error()})
			errs = append(errs, err)
			continue
		}

		wctx := &WorkflowContext{
			Ctx:     ctx,
			RunID:   runID,
			Library: library,
			Logger:  logger,
		}

		report, err := r.workflow.RunLibrary(wctx)
		if err != nil {
			report.Error = err.Error()
			errs = append(errs, err)
		}
		summary.Libraries = append(summary.Libraries, report)
	}

	summary.FinishedAt = time.Now().UTC()

	for _, o := range r.observers {
		if err := o.Observe(ctx, summary); err != nil {
			logger.Warn("summary observer failed", "error", err)
		}
	}

	logger.Info("correction pass complete",
		"summary", summary.String(),
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	return summary, errors.Join(errs...)
}
