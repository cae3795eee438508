package akaza

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmizutani/akaza/dict"
	"github.com/mmizutani/akaza/lm"
	"github.com/mmizutani/akaza/romaji"
	"github.com/mmizutani/akaza/userdata"
)

// fixture builds a small in-memory Engine from a reading->surfaces
// dictionary and a set of unigram costs, the way
// original_source/akaza-core/libakaza/src/akaza_builder.rs's tests
// assemble a throwaway model rather than loading the real system
// files.
func fixture(t *testing.T, entries map[string][]string, unigramCosts map[string]float32) *Engine {
	t.Helper()

	db := dict.NewBuilder()
	for reading, surfaces := range entries {
		db.Add(reading, surfaces)
	}
	d := db.Build()

	ub := lm.NewUnigramBuilder()
	for word, cost := range unigramCosts {
		require.NoError(t, ub.Add(word, cost))
	}
	uni := ub.Build()

	bi := lm.NewBigramBuilder().Build()
	ud := userdata.New(0)

	return New(d, uni, bi, ud, nil, 5.0, 0.5)
}

func TestConvertPrefersKnownWholeClauseOverFallback(t *testing.T) {
	e := fixture(t, map[string][]string{
		"わたし": {"私"},
		"の":    {"の"},
		"なまえ": {"名前"},
		"は":    {"は"},
		"なかの": {"中野"},
		"です":  {"です"},
	}, map[string]float32{
		"私/わたし":  -2,
		"の/の":     -1,
		"名前/なまえ": -2,
		"は/は":     -1,
		"中野/なかの": -3,
		"です/です":  -1,
	})

	result, err := e.Convert("わたしのなまえはなかのです")
	require.NoError(t, err)
	assert.Equal(t, "私の名前は中野です", result)
}

func TestConvertSingleLongCompoundWord(t *testing.T) {
	e := fixture(t, map[string][]string{
		"ろうどうしゃさいがいほしょうほけんほう": {"労働者災害補償保険法"},
		"ろうどうしゃ":                 {"労働者"},
		"さいがい":                   {"災害"},
		"ほしょう":                   {"保障", "保証"},
		"ほけん":                    {"保険"},
		"ほう":                     {"法", "報"},
	}, map[string]float32{
		"労働者災害補償保険法/ろうどうしゃさいがいほしょうほけんほう": 10,
		"労働者/ろうどうしゃ": -3,
		"災害/さいがい":    -3,
		"保障/ほしょう":    -3,
		"保険/ほけん":     -3,
		"法/ほう":       -3,
	})

	result, err := e.Convert("ろうどうしゃさいがいほしょうほけんほう")
	require.NoError(t, err)
	assert.Equal(t, "労働者災害補償保険法", result)
}

func TestConvertEmptyYomiReturnsEmptyString(t *testing.T) {
	e := fixture(t, nil, nil)
	result, err := e.Convert("")
	require.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestConvertUnknownReadingFallsBackToReadingItself(t *testing.T) {
	e := fixture(t, nil, nil)
	result, err := e.Convert("ほげ")
	require.NoError(t, err)
	assert.Equal(t, "ほげ", result)
}

func TestConvertToStringTransliteratesRomanInputFirst(t *testing.T) {
	e := fixture(t, map[string][]string{
		"わたし": {"私"},
	}, map[string]float32{
		"私/わたし": -1,
	})
	e.romaji = romaji.DefaultConverter()

	result, err := e.ConvertToString("watashi")
	require.NoError(t, err)
	assert.Equal(t, "私", result)
}

func TestLearnThenConvertPromotesLearnedCandidate(t *testing.T) {
	e := fixture(t, map[string][]string{
		"わたし": {"渡し", "私"},
	}, map[string]float32{
		"渡し/わたし": -1,
		"私/わたし":  -1,
	})

	before, err := e.Convert("わたし")
	require.NoError(t, err)
	assert.Equal(t, "渡し", before)

	require.NoError(t, e.Learn([]string{"私/わたし"}))

	after, err := e.Convert("わたし")
	require.NoError(t, err)
	assert.Equal(t, "私", after)
}

func TestConvertNBestReturnsRunnerUpCandidates(t *testing.T) {
	e := fixture(t, map[string][]string{
		"わたし": {"私", "渡し"},
	}, map[string]float32{
		"私/わたし":  -1,
		"渡し/わたし": -2,
	})

	clauses, err := e.ConvertNBest("わたし")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	require.Len(t, clauses[0].Candidates, 2)
	assert.Equal(t, "私", clauses[0].Candidates[0].Node.Surface)
	assert.Equal(t, "渡し", clauses[0].Candidates[1].Node.Surface)
}
