// Package pdfsource reads character-level glyph data and plain page text
// from a PDF file. It wraps ledongthuc/pdf, which exposes per-text font name
// and size, and cross-checks the document with pdfcpu before parsing.
package pdfsource

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sfdrtools/sfdr-validator/internal/common"
)

// Char is one rendered character with its style, the unit the paragraph
// clustering stage consumes.
type Char struct {
	Text     string
	FontName string
	FontSize float64
	Page     int // 1-based
}

// Document is an open PDF positioned for glyph and text extraction.
type Document struct {
	reader *pdf.Reader
	file   *os.File
	path   string
	pages  int
	logger *slog.Logger
}

// Open opens and validates a PDF. pdfcpu rejects documents ledongthuc would
// choke on later; a document that fails both is reported as unreadable so
// the caller can treat it as "zero templates found".
func Open(path string, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfcpu page count: %v", common.ErrInvalidPDF, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPDF, err)
	}

	if n := reader.NumPage(); n != pages {
		logger.Warn("page count mismatch between libraries", "pdfcpu", pages, "ledongthuc", n)
		pages = n
	}

	return &Document{reader: reader, file: f, path: path, pages: pages, logger: logger}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pages
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Bytes returns the raw document content, needed for the table-extraction
// service which takes the document body.
func (d *Document) Bytes() ([]byte, error) {
	return os.ReadFile(d.path)
}

// PageText returns the concatenated text of one page (1-based). Extraction
// failures on a page degrade to an empty string: a broken page must not
// abort the template it belongs to.
func (d *Document) PageText(pageNum int) string {
	chars := d.PageChars(pageNum)
	var out []byte
	for _, c := range chars {
		out = append(out, c.Text...)
	}
	return string(out)
}

// PageChars returns the characters of one page (1-based) in document order,
// each carrying its font name and size. A page that cannot be parsed yields
// no characters and a warning, not an error.
func (d *Document) PageChars(pageNum int) []Char {
	if pageNum < 1 || pageNum > d.pages {
		return nil
	}

	defer func() {
		// ledongthuc panics on some malformed content streams
		if r := recover(); r != nil {
			d.logger.Warn("glyph extraction failed", "page", pageNum, "panic", r)
		}
	}()

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		d.logger.Warn("empty page object", "page", pageNum)
		return nil
	}
	content := page.Content()

	chars := make([]Char, 0, len(content.Text))
	for _, t := range content.Text {
		chars = append(chars, Char{
			Text:     t.S,
			FontName: t.Font,
			FontSize: t.FontSize,
			Page:     pageNum,
		})
	}
	return chars
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
