package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

type recordingObserver struct {
	summaries []*pipeline.Summary
}

func (o *recordingObserver) Observe(ctx context.Context, s *pipeline.Summary) error {
	o.summaries = append(o.summaries, s)
	return errors.New("pushgateway down")
}

func TestRun_NoCandidates(t *testing.T) {
	h := newHarness(t)
	runner := NewWorkflowRunner(h.workflow(Options{}), testLogger())

	summary, err := runner.Run(context.Background(), "run-1")
	require.NoError(t, err)

	require.Len(t, summary.Libraries, 2)
	assert.Equal(t, media.LibraryGlobal, summary.Libraries[0].Library)
	assert.Equal(t, media.LibraryUser, summary.Libraries[1].Library)
	for _, r := range summary.Libraries {
		assert.Equal(t, 0, r.Counters.Resized)
		assert.Equal(t, 0, r.Counters.Replaced)
	}
	assert.Equal(t, "run-1", summary.RunID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
}

func TestRun_BothLibraries(t *testing.T) {
	h := newHarness(t)
	h.source.ids[media.LibraryGlobal] = []string{"abc-123"}
	h.source.ids[media.LibraryUser] = []string{"def-456"}
	h.put(t, media.LibraryGlobal, "abc-123", media.VariantOriginal, pngBytes(t, 2000, 1200))
	h.put(t, media.LibraryUser, "def-456", media.VariantOriginal, pngBytes(t, 800, 600))

	observer := &recordingObserver{}
	runner := NewWorkflowRunner(h.workflow(Options{}), testLogger())
	runner.AddObserver(observer)

	summary, err := runner.Run(context.Background(), "run-2")
	require.NoError(t, err, "observer failures must not fail the run")

	global := summary.Library(media.LibraryGlobal)
	assert.Equal(t, 1, global.Counters.Resized)
	assert.Equal(t, 0, global.Counters.Replaced)

	user := summary.Library(media.LibraryUser)
	assert.Equal(t, 0, user.Counters.Resized)
	assert.Equal(t, 1, user.Counters.Replaced)

	require.Len(t, observer.summaries, 1)
	assert.Same(t, summary, observer.summaries[0])
	h.assertScratchEmpty(t)
}

func TestRun_SelectFailureIsIsolated(t *testing.T) {
	h := newHarness(t)
	h.source.errs[media.LibraryGlobal] = errors.New("too many connections")
	h.source.ids[media.LibraryUser] = []string{"def-456"}
	h.put(t, media.LibraryUser, "def-456", media.VariantOriginal, pngBytes(t, 800, 600))

	runner := NewWorkflowRunner(h.workflow(Options{}), testLogger())
	summary, err := runner.Run(context.Background(), "run-3")

	assert.ErrorIs(t, err, ErrSelectFailed)
	assert.Contains(t, summary.Library(media.LibraryGlobal).Error, "too many connections")
	assert.Equal(t, 1, summary.Library(media.LibraryUser).Counters.Replaced)
	assert.Empty(t, summary.Library(media.LibraryUser).Error)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewWorkflowRunner(h.workflow(Options{}), testLogger()).Run(ctx, "run-4")
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, summary.Libraries, 2)
	assert.NotEmpty(t, summary.Libraries[0].Error)
}

func TestRun_DryRunFlagInSummary(t *testing.T) {
	h := newHarness(t)
	summary, err := NewWorkflowRunner(h.workflow(Options{DryRun: true}), testLogger()).Run(context.Background(), "run-5")
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
}
