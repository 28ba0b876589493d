package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdrtools/sfdr-validator/internal/pdfsource"
)

// fakeChars serves canned characters per page.
type fakeChars struct {
	pages map[int][]pdfsource.Char
}

func (f *fakeChars) PageChars(pageNum int) []pdfsource.Char {
	return f.pages[pageNum]
}

// chars explodes a string into one Char per rune with the given style.
func chars(text, font string, size float64, page int) []pdfsource.Char {
	out := make([]pdfsource.Char, 0, len(text))
	for _, r := range text {
		out = append(out, pdfsource.Char{Text: string(r), FontName: font, FontSize: size, Page: page})
	}
	return out
}

func TestClusterSingleStyle(t *testing.T) {
	src := &fakeChars{pages: map[int][]pdfsource.Char{
		1: chars("hello world", "Calibri", 11, 1),
	}}

	c := Cluster(src, 1, 1)
	require.Len(t, c.Paragraphs, 1)
	assert.Equal(t, "hello world", c.Paragraphs[0].Text)
	assert.Equal(t, "Calibri", c.Paragraphs[0].FontName)
	assert.Equal(t, 11, c.Paragraphs[0].FontSize)
	assert.Equal(t, "hello world", c.PageText[1])
}

func TestClusterSplitsOnStyleChange(t *testing.T) {
	page := append(chars("Question? ", "Calibri-Bold", 11, 1),
		chars("The answer.", "Calibri", 11, 1)...)
	src := &fakeChars{pages: map[int][]pdfsource.Char{1: page}}

	c := Cluster(src, 1, 1)
	require.Len(t, c.Paragraphs, 2)
	assert.Equal(t, "Question?", c.Paragraphs[0].Text)
	assert.Equal(t, "Calibri-Bold", c.Paragraphs[0].FontName)
	assert.Equal(t, "The answer.", c.Paragraphs[1].Text)
	assert.Equal(t, "Calibri", c.Paragraphs[1].FontName)
}

func TestClusterRoundsFontSize(t *testing.T) {
	// 10.9 and 11.2 round to 11 and must not split the run
	page := append(chars("same ", "Calibri", 10.9, 1),
		chars("run", "Calibri", 11.2, 1)...)
	src := &fakeChars{pages: map[int][]pdfsource.Char{1: page}}

	c := Cluster(src, 1, 1)
	require.Len(t, c.Paragraphs, 1)
	assert.Equal(t, "same run", c.Paragraphs[0].Text)
	assert.Equal(t, 11, c.Paragraphs[0].FontSize)
}

func TestClusterContinuesAcrossPages(t *testing.T) {
	src := &fakeChars{pages: map[int][]pdfsource.Char{
		1: chars("first half ", "Calibri", 11, 1),
		2: chars("second half", "Calibri", 11, 2),
	}}

	c := Cluster(src, 1, 2)
	require.Len(t, c.Paragraphs, 1)
	assert.Equal(t, "first half second half", c.Paragraphs[0].Text)
	assert.Equal(t, 1, c.Paragraphs[0].Page)
	assert.Equal(t, "first half ", c.PageText[1])
	assert.Equal(t, "second half", c.PageText[2])
}

func TestClusterRespectsPageRange(t *testing.T) {
	src := &fakeChars{pages: map[int][]pdfsource.Char{
		1: chars("outside", "Calibri", 11, 1),
		2: chars("inside", "Calibri", 11, 2),
	}}

	c := Cluster(src, 2, 2)
	require.Len(t, c.Paragraphs, 1)
	assert.Equal(t, "inside", c.Paragraphs[0].Text)
	_, ok := c.PageText[1]
	assert.False(t, ok)
}

func TestDominantStyle(t *testing.T) {
	page := append(chars("short? ", "Calibri-Bold", 14, 1),
		chars("a much longer body paragraph in the main style", "Calibri", 11, 1)...)
	src := &fakeChars{pages: map[int][]pdfsource.Char{1: page}}

	c := Cluster(src, 1, 1)
	assert.Equal(t, "Calibri", c.DominantFont())
	assert.Equal(t, 11, c.DominantSize())
}

func TestHistogramTieBreaksOnFirstSeen(t *testing.T) {
	h := newHistogram()
	h.Add("a")
	h.Add("b")
	h.Add("b")
	h.Add("a")
	assert.Equal(t, "a", h.Top())
	assert.Equal(t, 2, h.Count("a"))
}
