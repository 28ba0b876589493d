package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldText(t *testing.T) {
	assert.Equal(t, "selected", Scalar("selected").Text())
	assert.Equal(t, "vastaus", LabeledAnswer("a_label", "vastaus", 0.9).Text())
}

func TestValueScalar(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("sm_x", Scalar("selected"))

	assert.Equal(t, "selected", tpl.Value("sm_x"))
	assert.Equal(t, "", tpl.Value("sm_missing"))
}

func TestValueLabeledAnswer(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("Kysymys yksi?", LabeledAnswer("a_topic", "eka", 0.8))

	assert.Equal(t, "eka", tpl.Value("a_topic"))
	// lookup is by label, not by question key
	assert.Equal(t, "", tpl.Value("Kysymys yksi?"))
}

func TestValueJoinsDuplicateLabels(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("b kysymys?", LabeledAnswer("a_topic", "toka", 0.7))
	tpl.Set("a kysymys?", LabeledAnswer("a_topic", "eka", 0.9))

	// joined in sorted key order, independent of insertion order
	assert.Equal(t, "eka / toka", tpl.Value("a_topic"))
}

func TestHas(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("sm_x", Scalar(""))
	tpl.Set("Kysymys?", LabeledAnswer("a_topic", "vastaus", 0.5))

	assert.False(t, tpl.Has("sm_x"))
	assert.True(t, tpl.Has("a_topic"))
	assert.False(t, tpl.Has("a_other"))
}

func TestSetOverwrites(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("f_x", Scalar("old"))
	tpl.Set("f_x", Scalar("new"))
	assert.Equal(t, "new", tpl.Value("f_x"))
}

func TestAnswers(t *testing.T) {
	tpl := New(1, 2)
	tpl.Set("sm_x", Scalar("selected"))
	tpl.Set("Kysymys?", LabeledAnswer("a_topic", "vastaus", 0.5))

	answers := tpl.Answers()
	assert.Len(t, answers, 1)
	assert.Contains(t, answers, "Kysymys?")
}
