// Package label matches extracted questions to the canonical field catalog
// by embedding cosine similarity.
package label

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/embedding"
)

// Catalog holds the pre-embedded reference questions. It is produced once
// per session and read-only afterwards, so it is safe to share between
// template workers.
type Catalog struct {
	labels  []string
	vectors map[string][]float32
}

// BuildCatalog embeds every reference question of the canonical field set.
// One batched call covers the whole catalog.
func BuildCatalog(ctx context.Context, emb embedding.Embedder, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	labels := make([]string, 0, len(constants.ReferenceQuestions))
	for l := range constants.ReferenceQuestions {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)

	texts := make([]string, len(labels))
	for i, l := range labels {
		texts[i] = constants.ReferenceQuestions[constants.FieldLabel(l)]
	}

	vecs, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed reference questions: %w", err)
	}

	vectors := make(map[string][]float32, len(labels))
	for i, l := range labels {
		vectors[l] = vecs[i]
	}

	logger.Info("catalog embedded",
		"fields", len(labels),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Catalog{labels: labels, vectors: vectors}, nil
}

// Labels returns the catalog labels in stable order.
func (c *Catalog) Labels() []string {
	return c.labels
}

// Vector returns the reference embedding of one label.
func (c *Catalog) Vector(label string) []float32 {
	return c.vectors[label]
}
