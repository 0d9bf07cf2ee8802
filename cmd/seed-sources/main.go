package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/tally/internal/seed"
	"github.com/okian/tally/pkg/logger"
)

// Default configuration constants.
const (
	defaultMembers = 40
	defaultEvents  = 9
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		dbPath  = flag.String("db", "tally.db", "Path to the catalog database")
		period  = flag.String("period", "current", "Tracking period to seed")
		members = flag.Int("members", defaultMembers, "Number of distinct members to generate")
		events  = flag.Int("events", defaultEvents, "Number of event sources to create")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := seed.Config{
		DBPath:  *dbPath,
		Period:  *period,
		Members: *members,
		Events:  *events,
	}
	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
