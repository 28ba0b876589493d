// Package template holds the data model shared by every pipeline stage:
// the Template record produced by segmentation and the tagged-union Field
// values that accumulate on it as extraction progresses.
package template

import (
	"fmt"
	"strings"
)

// FieldKind discriminates the two value shapes a template field can take.
type FieldKind int

const (
	// KindScalar is a plain value: header fields, selection marks and the
	// free-text fields returned by the table-extraction service.
	KindScalar FieldKind = iota
	// KindAnswer is a labeled free-text answer produced by the semantic
	// labeler, keyed in Fields by the original question text.
	KindAnswer
)

// Field is the tagged union stored in Template.Fields.
type Field struct {
	Kind  FieldKind
	Value string // scalar value (KindScalar)

	Label  string  // canonical field label (KindAnswer)
	Answer string  // extracted answer text (KindAnswer)
	Score  float64 // cosine similarity to the reference question (KindAnswer)
}

// Scalar builds a plain-value field.
func Scalar(v string) Field {
	return Field{Kind: KindScalar, Value: v}
}

// LabeledAnswer builds a semantic-labeler field.
func LabeledAnswer(label, answer string, score float64) Field {
	return Field{Kind: KindAnswer, Label: label, Answer: answer, Score: score}
}

// Text is the total accessor: it never fails, returning the scalar value or
// the answer text depending on the field kind.
func (f Field) Text() string {
	if f.Kind == KindAnswer {
		return f.Answer
	}
	return f.Value
}

// Template is one regulatory disclosure instance found in the source PDF.
// Pages are 1-based and inclusive on both ends. LegalEntityID is the join
// key for all downstream stages and is never empty.
type Template struct {
	StartPage     int
	EndPage       int
	Article       *int
	ProductName   string
	LegalEntityID string

	// Fields accumulates values from every stage. Keys are either scalar
	// field names or, for labeled answers, the original question text.
	Fields map[string]Field
}

// New returns a Template covering [startPage, endPage] with an empty field map.
func New(startPage, endPage int) *Template {
	return &Template{
		StartPage: startPage,
		EndPage:   endPage,
		Fields:    map[string]Field{},
	}
}

// Set stores a field, overwriting any same-named key.
func (t *Template) Set(key string, f Field) {
	if t.Fields == nil {
		t.Fields = map[string]Field{}
	}
	t.Fields[key] = f
}

// Value resolves a field name the way validation sees the data: scalar
// fields match by key, labeled answers match by label. Several questions may
// carry the same label; their answers are joined with " / " in sorted key
// order so the result is deterministic. Absent names yield "", never an error.
func (t *Template) Value(name string) string {
	if f, ok := t.Fields[name]; ok && f.Kind == KindScalar {
		return f.Value
	}

	var answers []string
	for _, key := range t.sortedKeys() {
		f := t.Fields[key]
		if f.Kind == KindAnswer && f.Label == name {
			answers = append(answers, f.Answer)
		}
	}
	return strings.Join(answers, " / ")
}

// Has reports whether a name resolves to a non-empty value.
func (t *Template) Has(name string) bool {
	return t.Value(name) != ""
}

// Answers returns every labeled answer on the template keyed by the original
// question text.
func (t *Template) Answers() map[string]Field {
	out := map[string]Field{}
	for k, f := range t.Fields {
		if f.Kind == KindAnswer {
			out[k] = f
		}
	}
	return out
}

func (t *Template) sortedKeys() []string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	// insertion sort; field maps are small
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func (t *Template) String() string {
	return fmt.Sprintf("template[%s pages %d-%d]", t.LegalEntityID, t.StartPage, t.EndPage)
}
