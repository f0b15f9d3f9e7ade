package workflows

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path"

	"github.com/tendant/sticker-resize-fix/internal/correction"
	"github.com/tendant/sticker-resize-fix/internal/storage"
	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// Options tune a correction pass
type Options struct {
	ScratchDir    string
	DryRun        bool
	MarkProcessed bool
}

// CorrectionWorkflow re-derives the resized variant of every candidate
// sticker in a library from its original
type CorrectionWorkflow struct {
	source    CandidateSource
	store     storage.ObjectStore
	corrector *correction.Corrector
	marker    ProcessedMarker
	opts      Options
}

// NewCorrectionWorkflow creates a new correction workflow. marker may be nil
// when Options.MarkProcessed is false.
func NewCorrectionWorkflow(
	source CandidateSource,
	store storage.ObjectStore,
	corrector *correction.Corrector,
	marker ProcessedMarker,
	opts Options,
) *CorrectionWorkflow {
	if opts.ScratchDir == "" {
		opts.ScratchDir = os.TempDir()
	}
	return &CorrectionWorkflow{
		source:    source,
		store:     store,
		corrector: corrector,
		marker:    marker,
		opts:      opts,
	}
}

// Name returns the workflow name
func (w *CorrectionWorkflow) Name() string {
	return "StickerCorrectionWorkflow"
}

// RunLibrary corrects every candidate in wctx.Library, one at a time. A
// failing item is counted and skipped; only selection failure or context
// cancellation ends the library early.
func (w *CorrectionWorkflow) RunLibrary(wctx *WorkflowContext) (pipeline.LibraryReport, error) {
	logger := wctx.Logger.With("library", wctx.Library)
	report := pipeline.LibraryReport{Library: wctx.Library}

	ids, err := w.source.Select(wctx.Ctx, wctx.Library)
	if err != nil {
		logger.Error("candidate selection failed", "error", err)
		return report, fmt.Errorf("%w: %s: %w", ErrSelectFailed, wctx.Library, err)
	}
	report.Candidates = len(ids)
	logger.Info("candidates selected", "count", len(ids))

	for _, id := range ids {
		if err := wctx.Ctx.Err(); err != nil {
			logger.Warn("run cancelled", "processed", report.Counters.Total(), "remaining", len(ids)-report.Counters.Total())
			return report, err
		}

		res := w.ProcessItem(wctx, id)
		report.Counters.Add(res.Outcome)
	}

	logger.Info("library complete",
		"resized", report.Counters.Resized,
		"replaced", report.Counters.Replaced,
		"not_found", report.Counters.NotFound,
		"failed", report.Counters.Failed,
		"unhandled", report.Counters.Unhandled,
	)

	return report, nil
}

// ProcessItem corrects a single identifier. Every scratch file it creates is
// removed before it returns.
func (w *CorrectionWorkflow) ProcessItem(wctx *WorkflowContext, id string) ItemResult {
	logger := wctx.Logger.With("library", wctx.Library, "id", id)
	result := ItemResult{ID: id}

	fail := func(msg string, err error) ItemResult {
		logger.Error(msg, "error", err)
		result.Outcome = pipeline.OutcomeFailed
		result.Err = err
		return result
	}

	originalKey, err := media.Key(wctx.Library, id, media.VariantOriginal)
	if err != nil {
		return fail("invalid key", err)
	}
	resizedKey, err := media.Key(wctx.Library, id, media.VariantResized)
	if err != nil {
		return fail("invalid key", err)
	}

	// Step 1: Download original
	srcPath, err := storage.Download(wctx.Ctx, w.store, originalKey, w.opts.ScratchDir)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("original not found, skipping", "key", originalKey)
		result.Outcome = pipeline.OutcomeNotFound
		return result
	}
	if err != nil {
		return fail("download failed", err)
	}
	defer os.Remove(srcPath)

	// Step 2: Decode and decide
	img, err := decodeFile(srcPath)
	if err != nil {
		return fail("decode failed", fmt.Errorf("%w: %w", ErrDecodeFailed, err))
	}

	res := w.corrector.Correct(img)
	result.Decision = res.Decision
	result.Width, result.Height = res.Width, res.Height

	switch res.Decision {
	case correction.DecisionResize:
		result.Outcome = pipeline.OutcomeResized
	case correction.DecisionReplace:
		result.Outcome = pipeline.OutcomeReplaced
	default:
		logger.Warn("dimensions matched no correction rule",
			"width", res.SourceWidth, "height", res.SourceHeight)
		result.Outcome = pipeline.OutcomeUnhandled
		return result
	}

	logger = logger.With(
		"decision", res.Decision.String(),
		"source_width", res.SourceWidth,
		"source_height", res.SourceHeight,
		"width", res.Width,
		"height", res.Height,
	)

	if w.opts.DryRun {
		logger.Info("dry run, upload skipped", "key", resizedKey)
		return result
	}

	// Step 3: Encode and write back
	outPath, err := w.encodeFile(res, resizedKey)
	if err != nil {
		return fail("encode failed", fmt.Errorf("%w: %w", ErrEncodeFailed, err))
	}
	defer os.Remove(outPath)

	if err := storage.Upload(wctx.Ctx, w.store, resizedKey, outPath); err != nil {
		return fail("upload failed", fmt.Errorf("%w: %w", ErrUploadFailed, err))
	}

	// Step 4: Record the correction upstream
	if w.opts.MarkProcessed && w.marker != nil {
		if err := w.marker.MarkProcessed(wctx.Ctx, wctx.Library, id); err != nil {
			logger.Warn("failed to mark processed", "error", err)
		}
	}

	logger.Info("resized variant corrected", "key", resizedKey)
	return result
}

func decodeFile(p string) (image.Image, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return correction.Decode(f)
}

// encodeFile writes the corrected image to a scratch file named like key
func (w *CorrectionWorkflow) encodeFile(res correction.Result, key string) (string, error) {
	f, err := os.CreateTemp(w.opts.ScratchDir, "corrected-*"+path.Ext(key))
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if err := w.corrector.Encode(f, res.Image, key); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}

	return f.Name(), nil
}
