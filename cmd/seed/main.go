package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/bikelog/internal/seeder"
)

// Default configuration constants.
const (
	defaultCount       = 20
	defaultWorkers     = 1
	defaultSeed        = 1
	defaultTimeout     = 30 * time.Second
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8501", "Base URL of the service")
		count      = flag.Int("count", defaultCount, "Number of records to submit")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent submitters")
		seed       = flag.Uint64("seed", defaultSeed, "Generator seed")
		bike       = flag.String("bike", "", "Bike model for every record (default: the server's default)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the generated submissions to this JSON file")
		logFile    = flag.String("log", "", "Also write log output to this file")
		verbose    = flag.Bool("verbose", false, "Log every stored record")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	closer, err := seeder.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunDeadline)
	defer cancel()

	cfg := &seeder.Config{
		BaseURL:    *baseURL,
		Count:      *count,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		BikeModel:  *bike,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := seeder.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		cancel()
		stop()
		closer.Close()
		os.Exit(1)
	}
}
