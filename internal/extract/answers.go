package extract

import "strings"

// QAPair binds a question to the text between it and the next question.
type QAPair struct {
	Question string
	Answer   string
}

// PairAnswers slices the raw page text between consecutive questions into
// answers. For each adjacent question pair only the pages from the first
// question's page through the second question's page are concatenated,
// which reduces the risk of a question being matched inside another answer
// that merely refers to it. The concatenation starts with a single space so
// the first split boundary can never coincide with the start of the text.
// The last question's answer runs to the template's last page.
//
// Known limitation: the split takes the first occurrence of each question's
// exact text, so two byte-identical questions make the boundary ambiguous.
func PairAnswers(questions []Paragraph, pageText map[int]string, endPage int) []QAPair {
	if len(questions) == 0 {
		return nil
	}

	pairs := make([]QAPair, 0, len(questions))

	for i := 0; i < len(questions)-1; i++ {
		start := questions[i]
		stop := questions[i+1]

		relevant := joinPages(pageText, start.Page, stop.Page)
		answer := sliceBetween(relevant, start.Text, stop.Text)
		pairs = append(pairs, QAPair{Question: start.Text, Answer: answer})
	}

	last := questions[len(questions)-1]
	relevant := joinPages(pageText, last.Page, endPage)
	answer := sliceAfter(relevant, last.Text)
	pairs = append(pairs, QAPair{Question: last.Text, Answer: answer})

	return pairs
}

func joinPages(pageText map[int]string, first, last int) string {
	var b strings.Builder
	b.WriteString(" ")
	for page := first; page <= last; page++ {
		b.WriteString(pageText[page])
		b.WriteString(" ")
	}
	return b.String()
}

// sliceBetween returns the trimmed text strictly between the first
// occurrence of start and the first occurrence of stop after it. A question
// that cannot be found in the page text yields an empty answer rather than
// an error: every downstream rule must run uniformly over incomplete
// templates.
func sliceBetween(text, start, stop string) string {
	_, rest, ok := strings.Cut(text, start)
	if !ok {
		return ""
	}
	answer, _, _ := strings.Cut(rest, stop)
	return strings.TrimSpace(answer)
}

func sliceAfter(text, start string) string {
	_, rest, ok := strings.Cut(text, start)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}
