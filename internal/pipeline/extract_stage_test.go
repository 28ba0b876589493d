package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/label"
	"github.com/sfdrtools/sfdr-validator/internal/pdfsource"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// fakeChars emits one bold question run and one body answer run on page 1,
// with enough body characters to dominate the style histograms.
type fakeChars struct{}

func (fakeChars) PageChars(pageNum int) []pdfsource.Char {
	if pageNum != 1 {
		return nil
	}
	var out []pdfsource.Char
	add := func(text, font string) {
		for _, r := range text {
			out = append(out, pdfsource.Char{Text: string(r), FontName: font, FontSize: 11, Page: 1})
		}
	}
	add("Mikä on tälle rahoitustuotteelle suunniteltu varojen allokointi? ", "Calibri-Bold")
	add("Vähintään 70 % varoista sijoitetaan osakkeisiin ja loput korkoinstrumentteihin.", "Calibri")
	return out
}

// fakeEmbedder maps every text to a vector, defaulting to a far-away one.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := f.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

// fakeExtractor returns canned structured fields.
type fakeExtractor struct {
	fields map[string]string
	err    error
	page   int
}

func (f *fakeExtractor) ExtractPage(_ context.Context, _ []byte, page int) (map[string]string, error) {
	f.page = page
	return f.fields, f.err
}

func newStage(t *testing.T, emb *fakeEmbedder, ext *fakeExtractor) *ExtractStage {
	t.Helper()
	catalog, err := label.BuildCatalog(context.Background(), emb, nil)
	require.NoError(t, err)
	return NewExtractStage(nil, label.NewLabeler(emb, catalog, nil), ext)
}

func TestExtractStageRun(t *testing.T) {
	allocationRef := constants.ReferenceQuestions[constants.PlannedAssetAllocation]
	emb := &fakeEmbedder{vectors: map[string][]float32{
		allocationRef: {1, 0, 0},
		"Mikä on tälle rahoitustuotteelle suunniteltu varojen allokointi?": {0.95, 0.05, 0},
	}}
	ext := &fakeExtractor{fields: map[string]string{
		constants.SelSustainableObjectiveNo: "selected",
		constants.FieldPercentageAligned:    "70 %",
	}}
	stage := newStage(t, emb, ext)

	tpl := template.New(1, 1)
	tpl.LegalEntityID = "LEI1"
	require.NoError(t, stage.Run(context.Background(), tpl, fakeChars{}, []byte("%PDF-1.4")))

	// the labeled answer and the structured fields are all on the template
	assert.Equal(t,
		"Vähintään 70 % varoista sijoitetaan osakkeisiin ja loput korkoinstrumentteihin.",
		tpl.Value(string(constants.PlannedAssetAllocation)))
	assert.Equal(t, "selected", tpl.Value(constants.SelSustainableObjectiveNo))
	assert.Equal(t, "70 %", tpl.Value(constants.FieldPercentageAligned))

	// extraction is billed for the template's first page only
	assert.Equal(t, 1, ext.page)
}

func TestExtractStageStructuredFieldsOverwrite(t *testing.T) {
	emb := &fakeEmbedder{}
	ext := &fakeExtractor{fields: map[string]string{"f_x": "service value"}}
	stage := newStage(t, emb, ext)

	tpl := template.New(1, 1)
	tpl.Set("f_x", template.Scalar("stale value"))
	require.NoError(t, stage.Run(context.Background(), tpl, fakeChars{}, nil))

	assert.Equal(t, "service value", tpl.Value("f_x"))
}

func TestExtractStageExtractorFailure(t *testing.T) {
	emb := &fakeEmbedder{}
	ext := &fakeExtractor{err: errors.New("service unavailable")}
	stage := newStage(t, emb, ext)

	tpl := template.New(1, 1)
	err := stage.Run(context.Background(), tpl, fakeChars{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "structured extraction")
}

func TestEstimateCost(t *testing.T) {
	assert.Zero(t, EstimateCost(0))
	assert.InDelta(t, 0.117817, EstimateCost(1), 1e-9)
	assert.InDelta(t, 3*EstimateCost(1), EstimateCost(3), 1e-9)
}
