// Package segment finds template boundaries in an SFDR disclosure PDF and
// captures the header triple from each template's first page.
package segment

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// markerPhrase opens a new template wherever it appears (case-insensitive).
// It is the regulation reference printed at the top of every Article 8
// disclosure in the Finnish template set.
const markerPhrase = "asetuksen (eu) 2019/2088"

// Header field delimiters on a template's first page. Each extraction is
// best-effort: a missing delimiter leaves the field absent.
const (
	articleAfter      = "2088"
	articleBefore     = "artiklan"
	productNameAfter  = "Tuotenimi"
	productNameBefore = "Oikeushenkilö"
	leiAfter          = "tunnus"
	leiBefore         = "Ympäristöön"
)

// maxLEILength caps the legal-entity identifier. LEIs are 20 characters; a
// longer capture means the closing delimiter matched in the wrong place.
const maxLEILength = 20

// Source is the page-level view segmentation needs. *pdfsource.Document
// satisfies it.
type Source interface {
	PageCount() int
	PageText(pageNum int) string
}

// FindTemplates scans pages sequentially and returns one Template per
// marker occurrence, in document order, covering contiguous non-overlapping
// page ranges that end at the document's last page. A document with no
// marker yields an empty list, which is a valid terminal state rather than
// an error.
func FindTemplates(src Source, logger *slog.Logger) []*template.Template {
	if logger == nil {
		logger = slog.Default()
	}

	numPages := src.PageCount()
	var templates []*template.Template

	lastStartPage := 0 // 1-based; 0 means no template open yet
	var article *int
	var productName, legalEntityID string

	for i := 0; i < numPages; i++ {
		text := src.PageText(i + 1)
		if !strings.Contains(strings.ToLower(text), markerPhrase) {
			continue
		}

		// A new start page closes the previous template at the page before it.
		if lastStartPage != 0 {
			t := template.New(lastStartPage, i)
			t.Article = article
			t.ProductName = productName
			t.LegalEntityID = legalEntityID
			templates = append(templates, t)
		}

		article, productName, legalEntityID = extractHeader(text, i)
		lastStartPage = i + 1

		logger.Debug("template boundary found",
			"page", i+1, "product_name", productName, "legal_entity_id", legalEntityID)
	}

	if lastStartPage != 0 {
		t := template.New(lastStartPage, numPages)
		t.Article = article
		t.ProductName = productName
		t.LegalEntityID = legalEntityID
		templates = append(templates, t)
	}

	logger.Info("segmentation complete", "pages", numPages, "templates", len(templates))
	return templates
}

// extractHeader runs the three independent best-effort extractions on a
// template's first page. pageIndex is 0-based and only used for the
// synthetic identifier fallback.
func extractHeader(text string, pageIndex int) (article *int, productName, legalEntityID string) {
	if s, ok := between(text, articleAfter, articleBefore); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			article = &n
		}
	}

	if s, ok := between(text, productNameAfter, productNameBefore); ok {
		productName = strings.TrimSpace(strings.ReplaceAll(s, ":", ""))
	}

	if s, ok := between(text, leiAfter, leiBefore); ok {
		legalEntityID = truncateRunes(strings.TrimSpace(strings.ReplaceAll(s, ":", "")), maxLEILength)
	}

	// The identifier is the template's join key and must never be empty.
	if legalEntityID == "" {
		if productName != "" {
			legalEntityID = productName
		} else {
			legalEntityID = fmt.Sprintf("no_name_found_%d", pageIndex)
		}
	}

	return article, productName, legalEntityID
}

// between returns the text strictly between the first occurrence of after
// and the first occurrence of before in the remainder.
func between(text, after, before string) (string, bool) {
	_, rest, ok := strings.Cut(text, after)
	if !ok {
		return "", false
	}
	out, _, ok := strings.Cut(rest, before)
	if !ok {
		return "", false
	}
	return out, true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
