package romaji

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHiraganaBasicWord(t *testing.T) {
	c := DefaultConverter()
	assert.Equal(t, "きつね", c.ToHiragana("kitsune"))
}

func TestToHiraganaPendingConsonant(t *testing.T) {
	c := DefaultConverter()
	assert.Equal(t, "n", c.ToHiragana("n"))
}

func TestToHiraganaSpecExampleSentence(t *testing.T) {
	c := DefaultConverter()
	got := c.ToHiragana("watashinonamaehanakanodesu")
	assert.Equal(t, "わたしのなまえはなかのです", got)
}

func TestToHiraganaDoubledConsonant(t *testing.T) {
	c := DefaultConverter()
	assert.Equal(t, "がっこう", c.ToHiragana("gakkou"))
}

func TestToHiraganaUnknownByteEmittedVerbatim(t *testing.T) {
	c := DefaultConverter()
	assert.Equal(t, "か123", c.ToHiragana("ka123"))
}

func TestRemoveLastCharStripsOneCodePoint(t *testing.T) {
	assert.Equal(t, "きつ", RemoveLastChar("きつn"))
}

func TestRemoveLastCharEmptyString(t *testing.T) {
	assert.Equal(t, "", RemoveLastChar(""))
}

func TestNewConverterCustomTable(t *testing.T) {
	c := NewConverter(map[string]string{"a": "あ", "aa": "ああ"})
	assert.Equal(t, "ああ", c.ToHiragana("aa"))
}
