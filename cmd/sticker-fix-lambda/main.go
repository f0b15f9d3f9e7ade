package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/tendant/sticker-resize-fix/internal/config"
	"github.com/tendant/sticker-resize-fix/internal/logging"
	"github.com/tendant/sticker-resize-fix/pkg/runner"
)

// Serverless entry point. Every invocation runs one full pass and returns the
// plain-text summary.
func main() {
	_ = godotenv.Load()

	if _, err := logging.Setup(os.Getenv("LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	r, err := runner.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer r.Shutdown()

	lambda.Start(r.Executor().Invoke)
}
