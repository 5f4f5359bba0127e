package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dmitrijs2005/linkshare/internal/filex"
)

// Output destinations accepted by Options.Output.
const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"
)

// Options controls where and at which level log records are written.
type Options struct {
	Level      string // debug, info, warn, error
	Output     string // stdout, file, both
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a level name to slog.Level. Unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON slog logger according to opts. The returned closer
// releases the rotating log file, if any, and must be called on shutdown.
func New(opts Options) (*SlogLogger, io.Closer, error) {
	w, closer, err := writerFor(opts, os.Stdout)
	if err != nil {
		return nil, nil, err
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return NewSlogLogger(slog.New(h)), closer, nil
}

func writerFor(opts Options, stdout io.Writer) (io.Writer, io.Closer, error) {
	output := opts.Output
	if output == "" {
		output = OutputStdout
	}

	switch output {
	case OutputStdout:
		return stdout, nopCloser{}, nil
	case OutputFile, OutputBoth:
	default:
		return nil, nil, fmt.Errorf("unknown log output %q", output)
	}

	if opts.FilePath == "" {
		return nil, nil, fmt.Errorf("log output %q requires a file path", output)
	}
	if _, err := filex.EnsureDir(filepath.Dir(opts.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	if output == OutputFile {
		return file, file, nil
	}
	return io.MultiWriter(stdout, file), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
