package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned page text. Index 0 is page 1.
type fakeSource struct {
	pages []string
}

func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) PageText(pageNum int) string { return f.pages[pageNum-1] }

const headerPage = `Asetuksen (EU) 2019/2088 8 artiklan mukaiset tiedot
Tuotenimi: Esimerkkirahasto Eurooppa
Oikeushenkilötunnus: 7437003RAKJ8DKE6Q659
Ympäristöön ja/tai yhteiskuntaan liittyvät ominaisuudet`

func TestFindTemplatesNoMarker(t *testing.T) {
	src := &fakeSource{pages: []string{"first page", "second page"}}
	templates := FindTemplates(src, nil)
	assert.Empty(t, templates)
}

func TestFindTemplatesSingle(t *testing.T) {
	src := &fakeSource{pages: []string{headerPage, "body", "more body"}}
	templates := FindTemplates(src, nil)
	require.Len(t, templates, 1)

	tpl := templates[0]
	assert.Equal(t, 1, tpl.StartPage)
	assert.Equal(t, 3, tpl.EndPage)
	require.NotNil(t, tpl.Article)
	assert.Equal(t, 8, *tpl.Article)
	assert.Equal(t, "Esimerkkirahasto Eurooppa", tpl.ProductName)
	assert.Equal(t, "7437003RAKJ8DKE6Q659", tpl.LegalEntityID)
}

func TestFindTemplatesMultiple(t *testing.T) {
	src := &fakeSource{pages: []string{
		headerPage, "body 1", "body 2",
		headerPage, "body 3",
	}}
	templates := FindTemplates(src, nil)
	require.Len(t, templates, 2)

	assert.Equal(t, 1, templates[0].StartPage)
	assert.Equal(t, 3, templates[0].EndPage)
	assert.Equal(t, 4, templates[1].StartPage)
	assert.Equal(t, 5, templates[1].EndPage)
}

func TestFindTemplatesAdjacentMarkers(t *testing.T) {
	// one-page templates on consecutive pages
	src := &fakeSource{pages: []string{headerPage, headerPage}}
	templates := FindTemplates(src, nil)
	require.Len(t, templates, 2)
	assert.Equal(t, 1, templates[0].StartPage)
	assert.Equal(t, 1, templates[0].EndPage)
	assert.Equal(t, 2, templates[1].StartPage)
	assert.Equal(t, 2, templates[1].EndPage)
}

func TestFindTemplatesCaseInsensitiveMarker(t *testing.T) {
	src := &fakeSource{pages: []string{"ASETUKSEN (EU) 2019/2088 tiedot"}}
	templates := FindTemplates(src, nil)
	assert.Len(t, templates, 1)
}

func TestExtractHeaderFallbackToProductName(t *testing.T) {
	text := `Asetuksen (EU) 2019/2088 8 artiklan
Tuotenimi: Rahasto Ilman Tunnusta
Oikeushenkilö`
	_, productName, lei := extractHeader(text, 4)
	assert.Equal(t, "Rahasto Ilman Tunnusta", productName)
	assert.Equal(t, "Rahasto Ilman Tunnusta", lei)
}

func TestExtractHeaderSyntheticFallback(t *testing.T) {
	_, productName, lei := extractHeader("asetuksen (eu) 2019/2088 only", 4)
	assert.Empty(t, productName)
	assert.Equal(t, fmt.Sprintf("no_name_found_%d", 4), lei)
}

func TestExtractHeaderLEITruncated(t *testing.T) {
	text := `2088 8 artiklan
Tuotenimi: X
Oikeushenkilötunnus: 7437003RAKJ8DKE6Q659EXTRAEXTRA Ympäristöön`
	_, _, lei := extractHeader(text, 0)
	assert.Equal(t, "7437003RAKJ8DKE6Q659", lei)
	assert.Len(t, lei, 20)
}

func TestExtractHeaderNonNumericArticle(t *testing.T) {
	text := `2088 kahdeksan artiklan
Tuotenimi: X Oikeushenkilö`
	article, _, _ := extractHeader(text, 0)
	assert.Nil(t, article)
}
