package label

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/extract"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// fakeEmbedder maps texts to fixed vectors. Unknown texts get a zero vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero_vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length_mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBuildCatalogCoversAllLabels(t *testing.T) {
	emb := &fakeEmbedder{}
	catalog, err := BuildCatalog(context.Background(), emb, nil)
	require.NoError(t, err)

	assert.Len(t, catalog.Labels(), len(constants.ReferenceQuestions))
	for _, l := range catalog.Labels() {
		assert.NotNil(t, catalog.Vector(l))
	}
}

func TestLabelPairsPicksBestLabel(t *testing.T) {
	strategyQ := constants.ReferenceQuestions[constants.InvestmentStrategy]
	allocationQ := constants.ReferenceQuestions[constants.PlannedAssetAllocation]

	emb := &fakeEmbedder{vectors: map[string][]float32{
		strategyQ:                  {1, 0, 0},
		allocationQ:                {0, 1, 0},
		"Mikä strategia on?":       {0.9, 0.1, 0},
		"Miten varat allokoidaan?": {0.1, 0.9, 0},
	}}

	catalog, err := BuildCatalog(context.Background(), emb, nil)
	require.NoError(t, err)
	labeler := NewLabeler(emb, catalog, nil)

	tpl := template.New(1, 3)
	pairs := []extract.QAPair{
		{Question: "Mikä strategia on?", Answer: "Aktiivinen osakepoiminta."},
		{Question: "Miten varat allokoidaan?", Answer: "80 % osakkeisiin."},
	}
	require.NoError(t, labeler.LabelPairs(context.Background(), tpl, pairs))

	f, ok := tpl.Fields["Mikä strategia on?"]
	require.True(t, ok)
	assert.Equal(t, template.KindAnswer, f.Kind)
	assert.Equal(t, string(constants.InvestmentStrategy), f.Label)
	assert.Equal(t, "Aktiivinen osakepoiminta.", f.Answer)
	assert.Greater(t, f.Score, 0.0)

	assert.Equal(t, "80 % osakkeisiin.",
		tpl.Value(string(constants.PlannedAssetAllocation)))
}

func TestLabelPairsSkipsNonMatching(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		constants.ReferenceQuestions[constants.InvestmentStrategy]: {1, 0, 0},
	}}
	catalog, err := BuildCatalog(context.Background(), emb, nil)
	require.NoError(t, err)
	labeler := NewLabeler(emb, catalog, nil)

	tpl := template.New(1, 1)
	pairs := []extract.QAPair{{Question: "Täysin eri aihe?", Answer: "jotain"}}
	require.NoError(t, labeler.LabelPairs(context.Background(), tpl, pairs))

	assert.Empty(t, tpl.Fields)
}
