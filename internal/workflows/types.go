package workflows

import (
	"context"
	"log/slog"

	"github.com/tendant/sticker-resize-fix/internal/correction"
	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// CandidateSource lists identifiers that need correcting
type CandidateSource interface {
	Select(ctx context.Context, library media.Library) ([]string, error)
}

// ProcessedMarker records that an identifier no longer needs correcting
type ProcessedMarker interface {
	MarkProcessed(ctx context.Context, library media.Library, id string) error
}

// SummaryObserver receives the summary of every finished run
type SummaryObserver interface {
	Observe(ctx context.Context, summary *pipeline.Summary) error
}

// WorkflowContext contains context for correcting one library
type WorkflowContext struct {
	Ctx     context.Context
	RunID   string
	Library media.Library
	Logger  *slog.Logger
}

// ItemResult is the outcome of correcting one identifier
type ItemResult struct {
	ID       string
	Outcome  pipeline.Outcome
	Decision correction.Decision
	Width    int
	Height   int
	Err      error
}
