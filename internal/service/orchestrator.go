package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"report-mailer/internal/domain"
	apperrors "report-mailer/pkg/errors"
)

// lockFileName guards the single-run-at-a-time assumption: artifact
// relocation state lives on the filesystem, so two concurrent runs would
// corrupt each other's bookkeeping.
const lockFileName = ".report-mailer.lock"

// Orchestrator sequences the split and send phases over a batch. Each phase
// is independently re-runnable; per-artifact failures are recorded in the
// summary and never abort the remaining artifacts.
type Orchestrator struct {
	splitter   domain.Splitter
	resolver   domain.ContactResolver
	dispatcher domain.Dispatcher
	config     domain.Config
	logger     domain.Logger
}

// NewOrchestrator wires the phases. Resolver and dispatcher may be nil when
// the send phase is not requested.
func NewOrchestrator(splitter domain.Splitter, resolver domain.ContactResolver, dispatcher domain.Dispatcher, config domain.Config, logger domain.Logger) *Orchestrator {
	return &Orchestrator{
		splitter:   splitter,
		resolver:   resolver,
		dispatcher: dispatcher,
		config:     config,
		logger:     logger,
	}
}

// Run executes the requested phases and aggregates the summary. The
// returned error is fatal (lock held, unreadable input root); per-artifact
// failures only surface through the summary.
func (o *Orchestrator) Run(ctx context.Context, split, send bool) (*domain.RunSummary, error) {
	release, err := o.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	summary := &domain.RunSummary{}
	if split {
		if err := o.runSplitPhase(ctx, summary); err != nil {
			return summary, err
		}
	}
	if send {
		if err := o.runSendPhase(ctx, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// runSplitPhase splits every source PDF in the input directory. A file that
// fails to parse is skipped; the rest of the batch proceeds.
func (o *Orchestrator) runSplitPhase(ctx context.Context, summary *domain.RunSummary) error {
	sources, err := listPDFs(o.config.GetInputDir())
	if err != nil {
		return apperrors.NewConfigError("failed to read input directory", err.Error())
	}
	if len(sources) == 0 {
		o.logger.Warn("No PDFs found in input directory", "dir", o.config.GetInputDir())
		return nil
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := o.splitter.Split(ctx, src)
		if err != nil {
			if apperrors.IsFatal(err) || errors.Is(err, context.Canceled) {
				return err
			}
			o.logger.Error("Skipping unreadable source file", err, "file", filepath.Base(src))
			summary.SourcesSkipped++
			continue
		}
		summary.SourcesProcessed++
		summary.ArtifactsWritten += len(result.Artifacts)
		summary.UnassignedPages += result.Unassigned
	}

	o.logger.Info("Split phase finished",
		"sources", summary.SourcesProcessed,
		"skipped", summary.SourcesSkipped,
		"artifacts", summary.ArtifactsWritten,
		"unassigned_pages", summary.UnassignedPages)
	return nil
}

// runSendPhase scans pending artifacts, resolves each contact and
// dispatches. Artifacts whose names carry no valid identifier (unassigned
// segments) are skipped and counted; they never reach the transport.
func (o *Orchestrator) runSendPhase(ctx context.Context, summary *domain.RunSummary) error {
	pending, err := listPDFs(o.config.GetOutputDir())
	if err != nil {
		return apperrors.NewConfigError("failed to read output directory", err.Error())
	}
	if len(pending) == 0 {
		o.logger.Warn("No pending artifacts to send", "dir", o.config.GetOutputDir())
		return nil
	}

	o.logger.Info("Send phase starting", "pending", len(pending))
	for _, artifact := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		digits, ok := identifierFromName(artifact)
		if !ok {
			o.logger.Warn("Skipping artifact without identifier", "artifact", filepath.Base(artifact))
			summary.Skipped++
			continue
		}

		contact, err := o.resolver.Resolve(ctx, digits)
		if err != nil {
			result := o.dispatcher.MarkFailed(artifact, err)
			summary.Failed++
			summary.Results = append(summary.Results, result)
			continue
		}

		result := o.dispatcher.Dispatch(ctx, contact, artifact)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case domain.OutcomeFailed:
			summary.Failed++
		default:
			summary.Sent++
		}
	}

	o.logger.Info("Send phase finished",
		"sent", summary.Sent, "failed", summary.Failed, "skipped", summary.Skipped)
	return nil
}

// acquireLock takes the exclusive run lock under the output root. A held
// lock means another run is in flight and startup must fail.
func (o *Orchestrator) acquireLock() (func(), error) {
	if err := os.MkdirAll(o.config.GetOutputDir(), 0o755); err != nil {
		return nil, apperrors.NewConfigError("failed to create output directory", err.Error())
	}
	lockPath := filepath.Join(o.config.GetOutputDir(), lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, apperrors.NewConfigError("another run is in progress", lockPath)
		}
		return nil, apperrors.NewConfigError("failed to acquire run lock", err.Error())
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return func() { os.Remove(lockPath) }, nil
}

// identifierFromName recovers the normalized identifier from an artifact
// file name, mirroring the deterministic naming used by the splitter. The
// disambiguation suffix (-2, -3...) is ignored.
func identifierFromName(path string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.HasPrefix(stem, "unassigned-") {
		return "", false
	}
	if i := strings.IndexByte(stem, '-'); i >= 0 {
		stem = stem[:i]
	}
	digits := NormalizeDigits(stem)
	if len(digits) != domain.CPFLength && len(digits) != domain.CNPJLength {
		return "", false
	}
	if digits != stem {
		return "", false
	}
	return digits, true
}

func listPDFs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
