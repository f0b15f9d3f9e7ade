package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/sticker-resize-fix/internal/handlers"
	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

type stubExecutor struct {
	summary *pipeline.Summary
	err     error
}

func (s stubExecutor) Execute(ctx context.Context) (*pipeline.Summary, error) {
	return s.summary, s.err
}

func newServer(t *testing.T, e handlers.Executor) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handlers.NewTriggerHandler(e).Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	srv := newServer(t, stubExecutor{summary: &pipeline.Summary{
		RunID: "run-1",
		Libraries: []pipeline.LibraryReport{
			{Library: media.LibraryGlobal, Counters: pipeline.Counters{Resized: 1}},
			{Library: media.LibraryUser},
		},
	}})

	resp, err := New(srv.URL + "/").Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", resp.Summary.RunID)
	assert.Equal(t, 1, resp.Summary.Library(media.LibraryGlobal).Counters.Resized)
	assert.Contains(t, resp.Text, "global: 1 resized")
}

func TestRun_PartialFailure(t *testing.T) {
	srv := newServer(t, stubExecutor{
		summary: &pipeline.Summary{Libraries: []pipeline.LibraryReport{{Library: media.LibraryGlobal, Error: "boom"}}},
		err:     assert.AnError,
	})

	resp, err := NewWithHTTPClient(srv.URL, srv.Client()).Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "boom", resp.Summary.Libraries[0].Error)
}

func TestRun_HardFailure(t *testing.T) {
	srv := newServer(t, stubExecutor{err: assert.AnError})

	_, err := New(srv.URL).Run(context.Background())
	assert.ErrorContains(t, err, "unexpected status 500")
}
