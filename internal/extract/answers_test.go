package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairAnswersEmpty(t *testing.T) {
	assert.Nil(t, PairAnswers(nil, map[int]string{}, 1))
}

func TestPairAnswersTwoQuestions(t *testing.T) {
	pageText := map[int]string{
		1: "Ensimmäinen kysymys? Ensimmäinen vastaus. Toinen kysymys? Toinen vastaus.",
	}
	questions := []Paragraph{
		{Text: "Ensimmäinen kysymys?", Page: 1},
		{Text: "Toinen kysymys?", Page: 1},
	}

	pairs := PairAnswers(questions, pageText, 1)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Ensimmäinen vastaus.", pairs[0].Answer)
	assert.Equal(t, "Toinen vastaus.", pairs[1].Answer)
}

func TestPairAnswersAcrossPages(t *testing.T) {
	pageText := map[int]string{
		1: "Kysymys yksi? Vastaus alkaa tältä sivulta",
		2: "ja jatkuu seuraavalle. Kysymys kaksi? Lyhyt vastaus.",
		3: "Viimeisen sivun tekstiä.",
	}
	questions := []Paragraph{
		{Text: "Kysymys yksi?", Page: 1},
		{Text: "Kysymys kaksi?", Page: 2},
	}

	pairs := PairAnswers(questions, pageText, 3)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Vastaus alkaa tältä sivulta ja jatkuu seuraavalle.", pairs[0].Answer)
	// last question's answer runs to the template's last page
	assert.Equal(t, "Lyhyt vastaus. Viimeisen sivun tekstiä.", pairs[1].Answer)
}

func TestPairAnswersQuestionNotInText(t *testing.T) {
	// clustering can reassemble a question differently than the raw page
	// text; the pair survives with an empty answer
	pageText := map[int]string{1: "sivun teksti ilman? kysymystä"}
	questions := []Paragraph{
		{Text: "Kadonnut kysymys?", Page: 1},
		{Text: "ilman?", Page: 1},
	}

	pairs := PairAnswers(questions, pageText, 1)
	require.Len(t, pairs, 2)
	assert.Equal(t, "", pairs[0].Answer)
	assert.Equal(t, "kysymystä", pairs[1].Answer)
}

func TestPairAnswersWindowLimitsSearch(t *testing.T) {
	// the second question's text also appears on a later page; only the
	// window up to the second question's own page is searched
	pageText := map[int]string{
		1: "Kysymys A? vastaus A Kysymys B?",
		2: "vastaus B",
		3: "maininta tekstissä: Kysymys B?",
	}
	questions := []Paragraph{
		{Text: "Kysymys A?", Page: 1},
		{Text: "Kysymys B?", Page: 1},
	}

	pairs := PairAnswers(questions, pageText, 3)
	require.Len(t, pairs, 2)
	assert.Equal(t, "vastaus A", pairs[0].Answer)
	assert.Equal(t, "vastaus B maininta tekstissä: Kysymys B?", pairs[1].Answer)
}
