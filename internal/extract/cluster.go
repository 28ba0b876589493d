// Package extract reconstructs logical paragraphs from character-level PDF
// data, detects the question paragraphs of a template and slices the text
// between questions into answers.
package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/sfdrtools/sfdr-validator/internal/pdfsource"
)

// Paragraph is a run of consecutive characters sharing the same font name
// and rounded font size. Page is where the run started.
type Paragraph struct {
	Text     string
	FontName string
	FontSize int
	Page     int
}

// Histogram counts style occurrences while remembering first-seen order, so
// the dominant style is deterministic under ties.
type Histogram struct {
	counts map[string]int
	order  []string
}

func newHistogram() *Histogram {
	return &Histogram{counts: map[string]int{}}
}

func (h *Histogram) Add(key string) {
	if _, ok := h.counts[key]; !ok {
		h.order = append(h.order, key)
	}
	h.counts[key]++
}

// Top returns the most frequent key, preferring the earliest-seen on ties.
func (h *Histogram) Top() string {
	best := ""
	bestCount := -1
	for _, k := range h.order {
		if h.counts[k] > bestCount {
			best = k
			bestCount = h.counts[k]
		}
	}
	return best
}

func (h *Histogram) Count(key string) int {
	return h.counts[key]
}

// Clustered is the output of the glyph-clustering pass over one template.
type Clustered struct {
	Paragraphs []Paragraph
	PageText   map[int]string
	FontNames  *Histogram
	FontSizes  *Histogram
}

// DominantFont is the body font of the template.
func (c *Clustered) DominantFont() string {
	return c.FontNames.Top()
}

// DominantSize is the body font size of the template (rounded points).
func (c *Clustered) DominantSize() int {
	n, _ := parseSizeKey(c.FontSizes.Top())
	return n
}

// CharSource yields the characters of one page in document order.
// *pdfsource.Document satisfies it; a page that cannot be read yields no
// characters and therefore no paragraphs.
type CharSource interface {
	PageChars(pageNum int) []pdfsource.Char
}

// Cluster walks the characters of pages [startPage, endPage] (1-based,
// inclusive) and groups them into style-homogeneous paragraphs. It also
// accumulates the full text per page, needed later for answer splitting,
// and the font-name and font-size frequency histograms of the template.
func Cluster(src CharSource, startPage, endPage int) *Clustered {
	out := &Clustered{
		PageText:  map[int]string{},
		FontNames: newHistogram(),
		FontSizes: newHistogram(),
	}

	var buf strings.Builder
	var bufFont string
	var bufSize int
	var bufPage int

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out.Paragraphs = append(out.Paragraphs, Paragraph{
			Text:     strings.TrimSpace(buf.String()),
			FontName: bufFont,
			FontSize: bufSize,
			Page:     bufPage,
		})
		buf.Reset()
	}

	for page := startPage; page <= endPage; page++ {
		var pageText strings.Builder
		for _, ch := range src.PageChars(page) {
			pageText.WriteString(ch.Text)

			size := int(math.Round(ch.FontSize))
			out.FontNames.Add(ch.FontName)
			out.FontSizes.Add(sizeKey(size))

			if ch.FontName == bufFont && size == bufSize && buf.Len() > 0 {
				buf.WriteString(ch.Text)
				continue
			}
			flush()
			buf.WriteString(ch.Text)
			bufFont = ch.FontName
			bufSize = size
			bufPage = ch.Page
		}
		out.PageText[page] = pageText.String()
	}
	flush()

	return out
}

func sizeKey(n int) string {
	return strconv.Itoa(n)
}

func parseSizeKey(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
