package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends logs to both stdout and logFile. An empty logFile
// gets a timestamped name.
func SetupLogging(logFile string, verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}

	if logFile == "" {
		logFile = "simulate_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Pitchside Match Simulator
=========================

Plays generated matches against a running pitchside service and checks
that scores, substitution caps and reports agree with what was sent.

Usage:
  go run ./cmd/simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matches int
        Number of matches to play (default 8)
  -events int
        Events recorded in each match (default 40)
  -workers int
        Matches played concurrently (default CPU cores)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Seed for generated matches (default: current time)
  -log string
        Log file (default: simulate_TIMESTAMP.log)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Play with default settings
  go run ./cmd/simulate

  # Replay a run
  go run ./cmd/simulate -seed 42 -matches 20 -events 100
`)
}
