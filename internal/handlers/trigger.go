package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// Executor runs one correction pass
type Executor interface {
	Execute(ctx context.Context) (*pipeline.Summary, error)
}

// TriggerHandler exposes the correction pass over HTTP
type TriggerHandler struct {
	executor Executor
	mu       sync.Mutex // one pass at a time per process
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(executor Executor) *TriggerHandler {
	return &TriggerHandler{
		executor: executor,
	}
}

// Routes registers the handler endpoints on mux
func (h *TriggerHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", HandleHealth)
	mux.HandleFunc("/v1/run", h.HandleRun)
}

// HandleRun handles GET|POST /v1/run - runs a pass synchronously and returns
// its summary as plain text, or JSON when the client accepts it. The request
// body is ignored.
func (h *TriggerHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed (use GET or POST)", http.StatusMethodNotAllowed)
		return
	}

	if !h.mu.TryLock() {
		http.Error(w, "A correction run is already in progress", http.StatusConflict)
		return
	}
	defer h.mu.Unlock()

	summary, err := h.executor.Execute(r.Context())
	if summary == nil {
		slog.Error("correction run failed", "error", err)
		http.Error(w, "Correction run failed", http.StatusInternalServerError)
		return
	}

	// Partial failures are reported inside the summary
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(pipeline.RunResponse{Summary: summary, Text: summary.String()})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(summary.String() + "\n"))
}

// HandleHealth returns health status
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}
