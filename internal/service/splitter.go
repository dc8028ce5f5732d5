package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"report-mailer/internal/domain"
	apperrors "report-mailer/pkg/errors"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFSplitter partitions a batch PDF into one artifact per taxpayer. Text is
// read page by page to locate record boundaries; pages themselves are copied
// by range extraction so the original content is preserved bit for bit.
type PDFSplitter struct {
	extractor *IdentifierExtractor
	outputDir string
	logger    domain.Logger
}

// NewPDFSplitter creates a splitter writing artifacts into the configured
// output directory.
func NewPDFSplitter(extractor *IdentifierExtractor, config domain.Config, logger domain.Logger) *PDFSplitter {
	return &PDFSplitter{
		extractor: extractor,
		outputDir: config.GetOutputDir(),
		logger:    logger,
	}
}

// Split reads sourcePath, attributes every page to a segment and writes one
// artifact per segment. A source that cannot be opened as a PDF returns an
// input error; the caller skips the file and continues the batch.
func (s *PDFSplitter) Split(ctx context.Context, sourcePath string) (*domain.SplitResult, error) {
	started := time.Now()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, apperrors.NewInputError("failed to create output directory", err)
	}

	texts, err := s.readPageTexts(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	source := domain.SourceDocument{Path: sourcePath, PageCount: len(texts)}
	s.logger.Info("Splitting source", "file", filepath.Base(sourcePath), "pages", source.PageCount)

	segments := s.segment(texts)

	result := &domain.SplitResult{Source: source, Segments: segments}
	for _, name := range segmentNames(segments) {
		seg := name.Segment
		outPath := filepath.Join(s.outputDir, name.Name+".pdf")

		pages := []string{fmt.Sprintf("%d-%d", seg.FirstPage, seg.LastPage)}
		if err := api.TrimFile(sourcePath, outPath, pages, nil); err != nil {
			return nil, apperrors.NewInputError(
				fmt.Sprintf("failed to write artifact for pages %d-%d", seg.FirstPage, seg.LastPage), err)
		}

		if seg.Unassigned() {
			result.Unassigned += seg.PageCount()
			s.logger.Warn("Pages without identifier", "artifact", name.Name+".pdf",
				"first_page", seg.FirstPage, "last_page", seg.LastPage)
		} else {
			s.logger.Info("Artifact written", "kind", seg.Identifier.Kind,
				"artifact", name.Name+".pdf", "pages", seg.PageCount())
		}

		result.Artifacts = append(result.Artifacts, domain.OutputArtifact{
			Path:       outPath,
			Identifier: seg.Identifier,
			Segment:    seg,
		})
	}

	result.Elapsed = time.Since(started)
	s.logger.Info("Split complete", "file", filepath.Base(sourcePath),
		"pages", source.PageCount, "artifacts", len(result.Artifacts),
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// pageTextTimeout caps text extraction for a single page; a page that cannot
// be read in time is treated as having no text.
const pageTextTimeout = 90 * time.Second

func (s *PDFSplitter) readPageTexts(ctx context.Context, sourcePath string) ([]string, error) {
	doc, err := fitz.New(sourcePath)
	if err != nil {
		return nil, apperrors.NewInputError("failed to open PDF", err)
	}
	defer doc.Close()

	type pageResult struct {
		text string
		err  error
	}

	numPages := doc.NumPage()
	texts := make([]string, 0, numPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.Debug("Reading page text", "page", pageNum+1, "total", numPages)

		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var text string
		select {
		case res := <-resultCh:
			if res.err != nil {
				s.logger.Warn("Failed to extract text from page", "page", pageNum+1, "error", res.err)
			}
			text = res.text
		case <-time.After(pageTextTimeout):
			s.logger.Warn("Page text extraction timeout; treating page as empty",
				"page", pageNum+1, "timeout_sec", int(pageTextTimeout.Seconds()))
			go func() { <-resultCh }() // drain so goroutine can exit
		case <-ctx.Done():
			go func() { <-resultCh }()
			return nil, ctx.Err()
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// segment applies the boundary policy to the ordered page texts: a page with
// a new identifier starts a segment, identifierless pages belong to the
// current one, and identifierless pages before the first boundary each
// become their own unassigned segment. Segments are contiguous,
// non-overlapping and cover every page. Pages are 1-indexed.
func (s *PDFSplitter) segment(texts []string) []domain.RecordSegment {
	var segments []domain.RecordSegment
	var current *domain.RecordSegment

	for i, text := range texts {
		page := i + 1
		id, found := s.extractor.Extract(text)

		switch {
		case found && (current == nil || id.Digits != current.Identifier.Digits):
			if current != nil {
				segments = append(segments, *current)
			}
			current = &domain.RecordSegment{Identifier: id, FirstPage: page, LastPage: page}
		case current != nil:
			// same identifier again, or no identifier: page inherits the segment
			current.LastPage = page
		default:
			// leading page with no identifier at all
			segments = append(segments, domain.RecordSegment{FirstPage: page, LastPage: page})
		}
	}
	if current != nil {
		segments = append(segments, *current)
	}
	return segments
}

// namedSegment pairs a segment with its deterministic artifact base name.
type namedSegment struct {
	Segment domain.RecordSegment
	Name    string
}

// segmentNames derives artifact base names: the normalized digits for
// attributed segments, with -2, -3... suffixes when the same identifier
// opens another segment later in the document, and unassigned-page-N for
// unattributable pages. Deterministic, so re-running a split overwrites
// rather than duplicates.
func segmentNames(segments []domain.RecordSegment) []namedSegment {
	seen := make(map[string]int)
	out := make([]namedSegment, 0, len(segments))
	for _, seg := range segments {
		var name string
		if seg.Unassigned() {
			name = fmt.Sprintf("unassigned-page-%d", seg.FirstPage)
		} else {
			name = seg.Identifier.Digits
			seen[name]++
			if n := seen[name]; n > 1 {
				name = fmt.Sprintf("%s-%d", name, n)
			}
		}
		out = append(out, namedSegment{Segment: seg, Name: name})
	}
	return out
}
