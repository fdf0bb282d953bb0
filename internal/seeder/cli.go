package seeder

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/bikelog/pkg/logger"
)

// SetupLogging initializes the global logger. With a log file, output goes
// to both stdout and the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w, closer = io.MultiWriter(os.Stdout, f), f
	}
	if err := logger.InitWith(logger.Options{Format: logger.FormatTint, Writer: w}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`bikelog seed tool
=================

Posts sample maintenance records to a running bikelog service, then reads
the history back and checks that the count and total cost grew by exactly
what was stored.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8501")
  -count int
        Number of records to submit (default 20)
  -workers int
        Number of concurrent submitters (default 1)
  -seed uint
        Generator seed; the same seed gives the same records (default 1)
  -bike string
        Bike model for every record (default: the server's default)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated submissions to this JSON file
  -log string
        Also write log output to this file
  -verbose
        Log every stored record
  -help
        Show this help message

Examples:
  # Seed twenty records into a local server
  go run ./cmd/seed

  # Seed a hundred records with four workers against another port
  go run ./cmd/seed -count 100 -workers 4 -url http://localhost:8080
`)
}
