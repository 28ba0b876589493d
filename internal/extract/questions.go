package extract

import "strings"

// excludedQuestion is the heading printed on top of the template box. It
// contains a question mark but is rendered out of reading order, so it can
// never be paired with an answer span and is skipped unconditionally.
const excludedQuestion = "onko tällä rahoitustuotteella kestävä sijoitustavoite"

// DetectQuestions selects the question paragraphs of a template. A
// paragraph qualifies if it contains a question mark and its style deviates
// from the template body: bold font, a different rounded size, or a
// different font. Not every question is bold and not every paragraph with a
// question mark is a question, so both signals are needed.
func DetectQuestions(c *Clustered) []Paragraph {
	mainFont := c.DominantFont()
	mainSize := c.DominantSize()

	var questions []Paragraph
	for _, p := range c.Paragraphs {
		if !strings.Contains(p.Text, "?") {
			continue
		}
		deviates := strings.Contains(strings.ToLower(p.FontName), "bold") ||
			p.FontSize != mainSize ||
			p.FontName != mainFont
		if !deviates {
			continue
		}
		if strings.Contains(strings.ToLower(p.Text), excludedQuestion) {
			continue
		}
		questions = append(questions, p)
	}
	return questions
}
