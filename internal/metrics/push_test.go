package metrics

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/sticker-resize-fix/pkg/media"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

func testSummary() *pipeline.Summary {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &pipeline.Summary{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Libraries: []pipeline.LibraryReport{
			{Library: media.LibraryGlobal, Candidates: 3, Counters: pipeline.Counters{Resized: 2, NotFound: 1}},
			{Library: media.LibraryUser, Error: "select failed"},
		},
	}
}

func TestPusher_Observe(t *testing.T) {
	var method, path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewPusher(srv.URL).Observe(context.Background(), testSummary())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/sticker_fix/dry_run/false", path)
	assert.True(t, bytes.Contains(body, []byte("sticker_fix_items")))
	assert.True(t, bytes.Contains(body, []byte("sticker_fix_library_error")))
}

func TestPusher_ObserveGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewPusher(srv.URL).Observe(context.Background(), testSummary())
	assert.ErrorContains(t, err, "failed to push metrics")
}
