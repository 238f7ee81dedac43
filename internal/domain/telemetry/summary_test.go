package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordize_DropsStopWordsAndShortTokens(t *testing.T) {
	words := Keywordize("What is your pricing and your strategy for growth?")
	assert.Equal(t, []string{"pricing", "strategy", "growth"}, words)
}

func TestKeywordize_StripsPunctuationAndLowercases(t *testing.T) {
	words := Keywordize("PRICING!!! Strategy... growth?")
	assert.Equal(t, []string{"pricing", "strategy", "growth"}, words)
}

func TestKeywordize_DropsNumericTokens(t *testing.T) {
	words := Keywordize("budget around 10000 dollars maybe 99999")
	assert.Equal(t, []string{"budget", "around", "dollars", "maybe"}, words)
}

func TestKeywordize_CapsAtEightPerMessage(t *testing.T) {
	words := Keywordize("alpha bravo charlie delta echoes foxtrot golfing hotels india juliet")
	assert.Len(t, words, 8)
}

func TestKeywordize_EmptyAndAllFiltered(t *testing.T) {
	assert.Empty(t, Keywordize(""))
	assert.Empty(t, Keywordize("the and for you"))
	assert.Empty(t, Keywordize("a b c 123"))
}
