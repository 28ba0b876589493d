// Package pipeline coordinates the two-stage run over a segmented PDF:
// field extraction per template, then rule validation per template.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sfdrtools/sfdr-validator/internal/common"
	"github.com/sfdrtools/sfdr-validator/internal/pdfsource"
	"github.com/sfdrtools/sfdr-validator/internal/segment"
	"github.com/sfdrtools/sfdr-validator/internal/template"
	"github.com/sfdrtools/sfdr-validator/internal/validation"
)

// Result pairs one processed template with its ordered condition list.
type Result struct {
	Template   *template.Template
	Conditions []validation.Condition
}

// Processor coordinates extraction then validation across all templates of
// a document. Templates are processed sequentially: the embedding and
// reasoning calls are rate- and cost-bounded, and serial processing keeps a
// per-template progress signal.
type Processor struct {
	Logger   *slog.Logger
	Extract  *ExtractStage
	Validate *validation.Engine
}

func NewProcessor(logger *slog.Logger, extract *ExtractStage, validate *validation.Engine) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extract: extract, Validate: validate}
}

// ProcessDocument segments the document and runs both stages for every
// template found. Results are all-or-nothing per template: a template is
// appended only after extraction and validation both finished, so an abort
// mid-pipeline leaves no partial entry visible to the caller. A service
// failure stops processing of the remaining templates; continuing with
// empty fields would validate garbage.
func (p *Processor) ProcessDocument(ctx context.Context, doc *pdfsource.Document) ([]Result, error) {
	start := time.Now()

	templates := segment.FindTemplates(doc, p.Logger)
	if len(templates) == 0 {
		p.Logger.Info("processor.no_templates", "path", doc.Path())
		return nil, nil
	}

	document, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	results := make([]Result, 0, len(templates))
	for i, t := range templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// one request ID correlates both stages' service calls per template
		tctx := common.WithRequestID(ctx, uuid.New().String())

		p.Logger.Info("processor.template.start",
			"run_id", common.RunIDFromContext(ctx),
			"req_id", common.RequestIDFromContext(tctx),
			"index", i+1, "total", len(templates),
			"template", t.LegalEntityID, "product", t.ProductName,
			"pages", fmt.Sprintf("%d-%d", t.StartPage, t.EndPage),
		)

		if err := p.Extract.Run(tctx, t, doc, document); err != nil {
			p.Logger.Error("processor.extract.failed", "template", t.LegalEntityID, "err", err)
			return nil, err
		}

		conditions, err := p.Validate.Validate(tctx, t)
		if err != nil {
			p.Logger.Error("processor.validate.failed", "template", t.LegalEntityID, "err", err)
			return nil, err
		}

		results = append(results, Result{Template: t, Conditions: conditions})
	}

	p.Logger.Info("processor.ok",
		"templates", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// Per-template cost model of the external services: the reasoning rules,
// one billed extraction page and the question embeddings. Extraction is
// deliberately scoped to one page per template, which is where the saving
// over whole-document analysis comes from.
const (
	validationCostPerTemplate = 0.07
	extractionCostPerPage     = 0.046817
	embeddingCostPerTemplate  = 0.001
)

// EstimateCost returns the expected service cost in EUR for a run over
// templateCount templates.
func EstimateCost(templateCount int) float64 {
	return (validationCostPerTemplate + extractionCostPerPage + embeddingCostPerTemplate) * float64(templateCount)
}
