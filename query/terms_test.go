package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTerms(t *testing.T) {
	terms := ParseTerms("risk factors +Smoking -children covid-19 + -")
	assert.Equal(t, "risk factors Smoking covid-19 + -", terms.Text)
	assert.Equal(t, []string{"smoking"}, terms.Required)
	assert.Equal(t, []string{"children"}, terms.Excluded)

	terms = ParseTerms("  plain query ")
	assert.Equal(t, "plain query", terms.Text)
	assert.Empty(t, terms.Required)
	assert.Empty(t, terms.Excluded)

	terms = ParseTerms("+(masks),")
	assert.Equal(t, []string{"masks"}, terms.Required)
}

func TestTermsMatch(t *testing.T) {
	text := "Smoking was associated with progression of COVID-19 disease."

	ok, _ := ParseTerms("risk").Match(text)
	assert.True(t, ok)

	ok, _ = ParseTerms("risk +smoking +covid-19").Match(text)
	assert.True(t, ok)

	ok, failed := ParseTerms("risk +diabetes").Match(text)
	assert.False(t, ok)
	assert.Equal(t, "+diabetes", failed)

	ok, failed = ParseTerms("risk -disease").Match(text)
	assert.False(t, ok)
	assert.Equal(t, "-disease", failed)
}
