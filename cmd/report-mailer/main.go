// report-mailer splits batch income report PDFs by CPF/CNPJ and emails each
// taxpayer their individual document.
//
// Usage:
//
//	report-mailer --split               # split PDFs from the input directory
//	report-mailer --send                # send emails for pending artifacts
//	report-mailer --split --send        # both phases in one run
//	report-mailer --send --dry-run      # simulate sends, no real transport
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"report-mailer/internal/config"

	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitPartial = 1 // at least one per-artifact failure
	exitFatal   = 2 // configuration or startup error
)

func main() {
	os.Exit(run())
}

func run() int {
	split := flag.Bool("split", false, "Split PDFs from the input directory by CPF/CNPJ")
	send := flag.Bool("send", false, "Send emails for pending artifacts in the output directory")
	dryRun := flag.Bool("dry-run", false, "Simulate sends without contacting the transport")
	flag.Parse()

	if !*split && !*send {
		fmt.Fprintln(os.Stderr, "usage: report-mailer [--split] [--send] [--dry-run]")
		flag.PrintDefaults()
		return exitOK
	}

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wiring
	container, err := config.NewContainer(ctx, *split, *send, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return exitFatal
	}

	summary, err := container.Orchestrator.Run(ctx, *split, *send)
	if err != nil {
		container.Logger.Error("Run aborted", err)
		return exitFatal
	}

	container.Logger.Info("Run summary",
		"sources", summary.SourcesProcessed,
		"sources_skipped", summary.SourcesSkipped,
		"artifacts", summary.ArtifactsWritten,
		"unassigned_pages", summary.UnassignedPages,
		"sent", summary.Sent,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	if summary.HasFailures() {
		return exitPartial
	}
	return exitOK
}
