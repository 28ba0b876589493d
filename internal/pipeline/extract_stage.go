package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sfdrtools/sfdr-validator/internal/docintel"
	"github.com/sfdrtools/sfdr-validator/internal/extract"
	"github.com/sfdrtools/sfdr-validator/internal/label"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// ExtractStage fills one template's field map: glyph clustering, question
// detection, answer pairing, semantic labeling and the structured-field
// merge from the table-extraction service.
type ExtractStage struct {
	Logger    *slog.Logger
	Labeler   *label.Labeler
	Extractor docintel.Extractor
}

func NewExtractStage(logger *slog.Logger, labeler *label.Labeler, extractor docintel.Extractor) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Logger: logger, Labeler: labeler, Extractor: extractor}
}

// Run populates t.Fields in place. document carries the raw PDF bytes for
// the table-extraction call, which is made exactly once, for the template's
// first page only. The service bills per page and this keeps the cost of a
// run a function of the template count alone.
func (s *ExtractStage) Run(ctx context.Context, t *template.Template, chars extract.CharSource, document []byte) error {
	start := time.Now()

	clustered := extract.Cluster(chars, t.StartPage, t.EndPage)
	questions := extract.DetectQuestions(clustered)
	pairs := extract.PairAnswers(questions, clustered.PageText, t.EndPage)

	s.Logger.Info("extract.clustered",
		"template", t.LegalEntityID,
		"paragraphs", len(clustered.Paragraphs),
		"questions", len(questions),
	)

	if err := s.Labeler.LabelPairs(ctx, t, pairs); err != nil {
		return fmt.Errorf("label answers: %w", err)
	}

	fields, err := s.Extractor.ExtractPage(ctx, document, t.StartPage)
	if err != nil {
		return fmt.Errorf("structured extraction: %w", err)
	}
	// service fields overwrite anything earlier stages set under the same key
	for name, value := range fields {
		t.Set(name, template.Scalar(value))
	}

	s.Logger.Info("extract.ok",
		"template", t.LegalEntityID,
		"labeled", len(t.Answers()),
		"structured_fields", len(fields),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
