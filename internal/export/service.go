// Package export assembles the XLSX compliance report: one sheet per
// template, validation conditions first, the extracted field table below.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sfdrtools/sfdr-validator/internal/pipeline"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// maxSheetNameLength is the workbook format's limit on sheet names.
// Identifiers longer than this keep their tail, which is the distinctive
// part of a legal-entity identifier.
const maxSheetNameLength = 30

// Service produces XLSX bytes for validation results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildReport returns an XLSX workbook (as bytes) with one sheet per
// processed template, keyed by legal-entity identifier. The caller is
// responsible for identifier uniqueness after truncation; the report
// writes sheets in result order and excelize rejects duplicates.
func (s *Service) BuildReport(results []pipeline.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())

	for i, res := range results {
		sheet := sheetName(res.Template.LegalEntityID)
		if i == 0 {
			// reuse the workbook's initial sheet for the first template
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("new sheet %q: %w", sheet, err)
			}
		}

		if err := s.writeSheet(f, sheet, res); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"sheets", len(results),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSheet(f *excelize.File, sheet string, res pipeline.Result) error {
	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// validation block
	headers := []string{"Name", "Description", "Value", "Comment"}
	for i, h := range headers {
		write(i+1, 1, h)
	}
	row := 2
	for _, cond := range res.Conditions {
		write(1, row, cond.Name)
		write(2, row, cond.Description)
		write(3, row, cond.Value)
		write(4, row, cond.Comment)
		row++
	}

	// template data block, below the conditions
	row += 2
	write(1, row, "Field")
	write(2, row, res.Template.LegalEntityID)
	row++

	t := res.Template
	write(1, row, "f_product_name")
	write(2, row, t.ProductName)
	row++
	if t.Article != nil {
		write(1, row, "f_template_article")
		write(2, row, *t.Article)
		row++
	}
	for _, key := range sortedFieldKeys(t) {
		field := t.Fields[key]
		write(1, row, fieldName(key, field))
		write(2, row, field.Text())
		row++
	}

	// widths match the report's reading pattern: names narrow, text wide
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 50)
	_ = f.SetColWidth(sheet, "C", "C", 10)
	_ = f.SetColWidth(sheet, "D", "D", 50)

	return nil
}

// fieldName shows labeled answers under their canonical label rather than
// the raw question text, which can run to a whole paragraph.
func fieldName(key string, f template.Field) string {
	if f.Kind == template.KindAnswer {
		return f.Label
	}
	return key
}

func sortedFieldKeys(t *template.Template) []string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sheetName(id string) string {
	r := []rune(id)
	if len(r) <= maxSheetNameLength {
		return id
	}
	return string(r[len(r)-maxSheetNameLength:])
}
