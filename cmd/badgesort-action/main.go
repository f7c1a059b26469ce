package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/badgesort/badgesort-action/cmd/badgesort-action/commands"
	"github.com/badgesort/badgesort-action/pkg/report"
	"github.com/badgesort/badgesort-action/pkg/telemetry"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	setupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down...")
		cancel()
	}()

	err := commands.Execute(ctx, Version, Commit, BuildDate)

	// The reporter is the only place that decides the exit status.
	code := report.New(os.Stdout).Report(err)
	cancel()
	os.Exit(code)
}

// setupLogging configures the global zerolog logger used by the step's
// packages before the step configuration is loaded.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level := os.Getenv("BADGESORT_LOG_LEVEL")
	if os.Getenv("RUNNER_DEBUG") == "1" {
		level = "debug"
	}
	zerolog.SetGlobalLevel(telemetry.ParseLevel(level))
}
