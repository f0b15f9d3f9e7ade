package executors

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

type stubRunner struct {
	runIDs []string
	err    error
}

func (s *stubRunner) Run(ctx context.Context, runID string) (*pipeline.Summary, error) {
	s.runIDs = append(s.runIDs, runID)
	return &pipeline.Summary{
		RunID: runID,
		Libraries: []pipeline.LibraryReport{
			{Library: media.LibraryGlobal, Counters: pipeline.Counters{Resized: 1}},
			{Library: media.LibraryUser, Counters: pipeline.Counters{Replaced: 2}},
		},
	}, s.err
}

func TestExecute_FreshRunIDs(t *testing.T) {
	r := &stubRunner{}
	e := NewRunExecutor(r)

	_, err := e.Execute(context.Background())
	require.NoError(t, err)
	_, err = e.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, r.runIDs, 2)
	assert.NotEqual(t, r.runIDs[0], r.runIDs[1])
	_, err = uuid.Parse(r.runIDs[0])
	assert.NoError(t, err)
}

func TestInvoke_ReturnsSummaryText(t *testing.T) {
	e := NewRunExecutor(&stubRunner{})

	text, err := e.Invoke(context.Background(), json.RawMessage(`{"anything":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "global: 1 resized, 0 replaced with original; user: 0 resized, 2 replaced with original", text)
}

func TestInvoke_ReturnsSummaryWithError(t *testing.T) {
	e := NewRunExecutor(&stubRunner{err: errors.New("global: select failed")})

	text, err := e.Invoke(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, text, "user: 0 resized, 2 replaced")
}
