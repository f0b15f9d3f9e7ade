package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const modulePrefix = "/sticker-resize-fix/"

// Setup installs the default slog logger. LOG_LEVEL=debug switches to
// colourised text with source locations; anything else logs JSON to stderr.
func Setup(levelText string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if levelText != "" {
		if err := level.UnmarshalText([]byte(levelText)); err != nil {
			return nil, fmt.Errorf("invalid log level: %s", levelText)
		}
	}

	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger, nil
}

// New builds a logger writing to w at level
func New(w io.Writer, level slog.Level) *slog.Logger {
	if level == slog.LevelDebug {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:       slog.LevelDebug,
			TimeFormat:  time.TimeOnly,
			ReplaceAttr: replaceAttr,
			AddSource:   true,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = cleanSourcePath(source.File)
		}
	}
	if err, ok := a.Value.Any().(error); ok {
		aErr := tint.Err(err)
		aErr.Key = a.Key
		return aErr
	}
	return a
}

// cleanSourcePath trims everything up to the module directory
func cleanSourcePath(file string) string {
	if _, rest, ok := strings.Cut(file, modulePrefix); ok {
		return rest
	}
	return filepath.Base(file)
}
