package extcmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"nagctl/internal/clock"
)

// DryRunNotice is logged whenever commands are not written.
const DryRunNotice = "Dry-run mode: no commands will be written to Nagios command file"

// Sink receives one batch of generated command lines.
type Sink interface {
	Write(ctx context.Context, commands []string) error
}

// FileSink appends timestamped commands to the Nagios external command file.
type FileSink struct {
	path   string
	clock  clock.Clock
	logger *slog.Logger
}

// NewFileSink builds a command-file sink.
// Params: command file path, clock for the batch timestamp, logger.
// Returns: sink ready for Write.
func NewFileSink(path string, clk clock.Clock, logger *slog.Logger) *FileSink {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSink{path: path, clock: clk, logger: logger}
}

// Write appends "[<unix>] <command>" lines; one timestamp covers the whole batch.
// Params: context for cancellation between lines, command lines.
// Returns: open/write/close error.
func (s *FileSink) Write(ctx context.Context, commands []string) (err error) {
	if len(commands) == 0 {
		return nil
	}
	if s.path == "" {
		return fmt.Errorf("command file path is empty")
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open command file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close command file: %w", closeErr)
		}
	}()

	stamp := s.clock.Now().Unix()
	writer := bufio.NewWriter(file)
	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Debug("running command", "command", command)
		if _, err := fmt.Fprintf(writer, "[%d] %s\n", stamp, command); err != nil {
			return fmt.Errorf("write command file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("write command file: %w", err)
	}
	s.logger.Info("written commands", "count", len(commands), "path", s.path)
	return nil
}

// DryRunSink logs commands without touching the command file.
type DryRunSink struct {
	logger *slog.Logger
}

// NewDryRunSink builds a sink that only logs.
func NewDryRunSink(logger *slog.Logger) *DryRunSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunSink{logger: logger}
}

// Write logs each command plus the dry-run notice.
// Params: context, command lines.
// Returns: context error only.
func (s *DryRunSink) Write(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return nil
	}
	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Debug("running command", "command", command)
	}
	s.logger.Warn(DryRunNotice)
	s.logger.Info("written commands", "count", len(commands), "dry_run", true)
	return nil
}
