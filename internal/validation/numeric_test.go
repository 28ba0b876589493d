package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"70 %", "70"},
		{"min. 7 0 %", "70"},
		{"vähintään 70 prosenttia", "70"},
		{"no figure", ""},
		{"", ""},
		{"100", "100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractDigits(tt.in), "input %q", tt.in)
	}
}

func TestHasDigits(t *testing.T) {
	assert.True(t, hasDigits("0 %"))
	assert.False(t, hasDigits("ei lukua"))
}

func TestConcatDigits(t *testing.T) {
	n, ok := concatDigits("vähintään 7 0 %")
	assert.True(t, ok)
	assert.Equal(t, 70, n)

	_, ok = concatDigits("ei lukua")
	assert.False(t, ok)
}
