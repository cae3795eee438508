package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmizutani/akaza/dict"
	"github.com/mmizutani/akaza/graph"
	"github.com/mmizutani/akaza/lm"
	"github.com/mmizutani/akaza/segmenter"
	"github.com/mmizutani/akaza/userdata"
)

func buildLattice(t *testing.T, yomi string, dictEntries map[string][]string, uni *lm.Unigram, ud *userdata.Store) (*graph.Lattice, *graph.Builder) {
	t.Helper()
	db := dict.NewBuilder()
	for reading, surfaces := range dictEntries {
		db.Add(reading, surfaces)
	}
	d := db.Build()

	seg := segmenter.Build(yomi, d)
	require.NotEmpty(t, seg.Ends)

	if uni == nil {
		uni = lm.NewUnigramBuilder().Build()
	}
	bi := lm.NewBigramBuilder().Build()
	if ud == nil {
		ud = userdata.New(0)
	}

	b := graph.NewBuilder(d, uni, bi, ud, 0.5, 5.0)
	return b.Construct(yomi, seg), b
}

func TestViterbiPrefersWholeWordOverSplit(t *testing.T) {
	l, b := buildLattice(t, "abc", map[string][]string{
		"abc": {"abc"}, "ab": {"ab"}, "c": {"c"},
	}, nil, nil)

	result, err := New(b).Viterbi(l)
	require.NoError(t, err)
	assert.Equal(t, "abc", result)
}

func TestViterbiUserDataPromotesLearnedCandidate(t *testing.T) {
	ud := userdata.New(0)
	require.NoError(t, ud.RecordEntries([]string{"私/わたし"}))

	l, b := buildLattice(t, "わたし", map[string][]string{
		"わたし": {"私", "渡し"},
	}, nil, ud)

	result, err := New(b).Viterbi(l)
	require.NoError(t, err)
	assert.Equal(t, "私", result)
}

func TestViterbiNBestListsAlternativesAtChosenPosition(t *testing.T) {
	ud := userdata.New(0)
	require.NoError(t, ud.RecordEntries([]string{"私/わたし"}))

	l, b := buildLattice(t, "わたし", map[string][]string{
		"わたし": {"私", "渡し"},
	}, nil, ud)

	clauses, err := New(b).ViterbiNBest(l)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	require.Len(t, clauses[0].Candidates, 2)

	best := clauses[0].Candidates[0]
	assert.Equal(t, "私", best.Node.Surface)
	assert.Greater(t, best.Score, clauses[0].Candidates[1].Score)
}
