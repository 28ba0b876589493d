package label

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sfdrtools/sfdr-validator/internal/embedding"
	"github.com/sfdrtools/sfdr-validator/internal/extract"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// Labeler assigns canonical field labels to extracted Q/A pairs.
type Labeler struct {
	emb     embedding.Embedder
	catalog *Catalog
	logger  *slog.Logger
}

func NewLabeler(emb embedding.Embedder, catalog *Catalog, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{emb: emb, catalog: catalog, logger: logger}
}

// LabelPairs embeds each extracted question and attaches to the template,
// under the original question text, the catalog label with the highest
// positive cosine similarity together with the paired answer and the score.
// Several distinct questions may end up carrying the same label; downstream
// consumers merge those by label. A question with no positive similarity to
// any reference gets no field.
func (l *Labeler) LabelPairs(ctx context.Context, t *template.Template, pairs []extract.QAPair) error {
	for _, pair := range pairs {
		vec, err := l.emb.Embed(ctx, pair.Question)
		if err != nil {
			return fmt.Errorf("embed question: %w", err)
		}

		bestLabel := ""
		bestScore := 0.0
		for _, candidate := range l.catalog.Labels() {
			score := Cosine(vec, l.catalog.Vector(candidate))
			if score > 0 && score > bestScore {
				bestLabel = candidate
				bestScore = score
			}
		}
		if bestLabel == "" {
			l.logger.Debug("question matched no canonical field", "question", pair.Question)
			continue
		}

		t.Set(pair.Question, template.LabeledAnswer(bestLabel, pair.Answer, bestScore))
	}
	return nil
}

// Cosine is dot(a,b) / (‖a‖·‖b‖), accumulated in float64. Zero vectors and
// mismatched lengths yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
