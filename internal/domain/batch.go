package domain

import "time"

// SourceDocument is one multi-record PDF taken from the input directory.
// It is never modified; the splitter only reads it.
type SourceDocument struct {
	Path      string `json:"path"`
	PageCount int    `json:"page_count"`
}

// RecordSegment is a contiguous, 1-indexed page range of a SourceDocument
// attributed to a single identifier. Segments produced by the splitter are
// non-overlapping and cover every page of the source. A zero Identifier
// marks an unattributable range.
type RecordSegment struct {
	Identifier Identifier `json:"identifier"`
	FirstPage  int        `json:"first_page"`
	LastPage   int        `json:"last_page"`
}

// PageCount returns the number of pages in the segment.
func (s RecordSegment) PageCount() int {
	return s.LastPage - s.FirstPage + 1
}

// Unassigned reports whether the segment could not be attributed.
func (s RecordSegment) Unassigned() bool {
	return s.Identifier.IsZero()
}

// OutputArtifact is a generated single-record PDF. Its name is derived
// deterministically from the identifier; after creation it is only ever
// relocated between lifecycle directories, never rewritten.
type OutputArtifact struct {
	Path       string     `json:"path"`
	Identifier Identifier `json:"identifier"`
	Segment    RecordSegment
}

// Outcome is the terminal state of one dispatch attempt.
type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
	OutcomeDryRun Outcome = "dry-run"
)

// DispatchResult records the outcome of exactly one send attempt for one
// artifact. Results are never retried within a run; re-running the send
// phase over relocated artifacts is the retry mechanism.
type DispatchResult struct {
	ArtifactPath string    `json:"artifact_path"`
	Recipient    string    `json:"recipient,omitempty"`
	Outcome      Outcome   `json:"outcome"`
	MessageID    string    `json:"message_id,omitempty"`
	ErrorDetail  string    `json:"error_detail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// SplitResult summarizes the splitting of one source document.
type SplitResult struct {
	Source     SourceDocument   `json:"source"`
	Segments   []RecordSegment  `json:"segments"`
	Artifacts  []OutputArtifact `json:"artifacts"`
	Unassigned int              `json:"unassigned"`
	Elapsed    time.Duration    `json:"elapsed"`
}

// RunSummary aggregates per-artifact outcomes across both phases of a run.
type RunSummary struct {
	SourcesProcessed int `json:"sources_processed"`
	SourcesSkipped   int `json:"sources_skipped"`
	ArtifactsWritten int `json:"artifacts_written"`
	UnassignedPages  int `json:"unassigned_pages"`

	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`

	Results []DispatchResult `json:"results,omitempty"`
}

// HasFailures reports whether any per-artifact failure occurred; the process
// exit code is derived from it.
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0 || s.SourcesSkipped > 0 || s.UnassignedPages > 0
}
