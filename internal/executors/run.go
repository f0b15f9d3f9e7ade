package executors

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// Runner performs one correction pass
type Runner interface {
	Run(ctx context.Context, runID string) (*pipeline.Summary, error)
}

// RunExecutor adapts a correction pass to request-triggered hosts. The
// request payload carries no parameters and is ignored.
type RunExecutor struct {
	runner Runner
}

// NewRunExecutor creates a new run executor
func NewRunExecutor(runner Runner) *RunExecutor {
	return &RunExecutor{
		runner: runner,
	}
}

// Execute runs one pass under a fresh run ID and returns its summary. The
// summary is returned even when err is non-nil.
func (e *RunExecutor) Execute(ctx context.Context) (*pipeline.Summary, error) {
	runID := uuid.New().String()
	slog.Info("executing correction run", "run_id", runID)

	summary, err := e.runner.Run(ctx, runID)
	if err != nil {
		slog.Error("correction run finished with errors", "run_id", runID, "error", err)
	}

	return summary, err
}

// Invoke is the serverless entry point: opaque event in, plain-text summary out
func (e *RunExecutor) Invoke(ctx context.Context, _ json.RawMessage) (string, error) {
	summary, err := e.Execute(ctx)
	if summary == nil {
		return "", err
	}
	return summary.String(), err
}
