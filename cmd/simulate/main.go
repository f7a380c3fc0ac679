package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/pitchside/internal/simulate"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matches = flag.Int("matches", simulate.DefaultMatches, "Number of matches to play")
		events  = flag.Int("events", simulate.DefaultEventsPerMatch, "Events recorded in each match")
		workers = flag.Int("workers", runtime.NumCPU(), "Matches played concurrently")
		timeout = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		seed    = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for generated matches")
		logFile = flag.String("log", "", "Log file (default: simulate_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:        *baseURL,
		Matches:        *matches,
		EventsPerMatch: *events,
		Workers:        *workers,
		Timeout:        *timeout,
		Seed:           *seed,
		Verbose:        *verbose,
	}

	stats, err := simulate.Run(ctx, config)
	if err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		for _, m := range stats.Mismatches {
			_, _ = os.Stderr.WriteString("  " + m + "\n")
		}
		os.Exit(1)
	}
}
