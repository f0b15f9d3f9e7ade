package runner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/tendant/sticker-resize-fix/internal/candidates"
	"github.com/tendant/sticker-resize-fix/internal/config"
	"github.com/tendant/sticker-resize-fix/internal/correction"
	"github.com/tendant/sticker-resize-fix/internal/executors"
	"github.com/tendant/sticker-resize-fix/internal/metrics"
	"github.com/tendant/sticker-resize-fix/internal/storage"
	"github.com/tendant/sticker-resize-fix/internal/workflows"
	"github.com/tendant/sticker-resize-fix/pkg/pipeline"
)

// Runner provides a high-level API for running the sticker correction pass
type Runner struct {
	db       *sql.DB
	executor *executors.RunExecutor
}

// New connects to the database and object store and wires the correction
// pass. Any failure here happens before a single image is touched.
func New(ctx context.Context, cfg *config.Config) (*Runner, error) {
	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		db.Close()
		return nil, err
	}

	selector := candidates.NewSelector(db, cfg.Job.Cutoff, cfg.Database.QueryTimeout)
	corrector := correction.NewCorrector(
		correction.Bounds{Width: cfg.Job.MaxWidth, Height: cfg.Job.MaxHeight},
		cfg.Job.Quality,
	)

	workflow := workflows.NewCorrectionWorkflow(selector, store, corrector, selector, workflows.Options{
		ScratchDir:    cfg.Job.ScratchDir,
		DryRun:        cfg.Job.DryRun,
		MarkProcessed: cfg.Job.MarkProcessed,
	})

	workflowRunner := workflows.NewWorkflowRunner(workflow, slog.Default())
	if cfg.Metrics.PushgatewayURL != "" {
		workflowRunner.AddObserver(metrics.NewPusher(cfg.Metrics.PushgatewayURL))
	}

	slog.Info("correction runner ready",
		"bucket", cfg.Storage.Bucket,
		"cutoff", cfg.Job.Cutoff,
		"bounds", fmt.Sprintf("%dx%d", cfg.Job.MaxWidth, cfg.Job.MaxHeight),
		"dry_run", cfg.Job.DryRun,
		"mark_processed", cfg.Job.MarkProcessed,
	)

	return &Runner{
		db:       db,
		executor: executors.NewRunExecutor(workflowRunner),
	}, nil
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx := ctx
	if cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.QueryTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	return db, nil
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, error) {
	if cfg.LocalDir != "" {
		slog.Info("using filesystem object store", "dir", cfg.LocalDir)
		return storage.NewFilesystemStorage(filepath.Join(cfg.LocalDir, cfg.Bucket))
	}

	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return store, nil
}

// Executor returns the trigger-facing executor
func (r *Runner) Executor() *executors.RunExecutor {
	return r.executor
}

// Run performs one correction pass
func (r *Runner) Run(ctx context.Context) (*pipeline.Summary, error) {
	return r.executor.Execute(ctx)
}

// Shutdown releases the database pool
func (r *Runner) Shutdown() {
	if r.db != nil {
		r.db.Close()
	}
}
