package louds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTrie(keys ...string) *Trie {
	b := NewBuilder()
	for _, k := range keys {
		b.Add(k, nil)
	}
	return b.Build()
}

func TestCommonPrefixSearch(t *testing.T) {
	trie := buildTrie("わたし", "わた", "わし", "ほげほげ")

	got := trie.CommonPrefixSearch("わたしのきもち")
	assert.Equal(t, []string{"わた", "わたし"}, got)
}

func TestCommonPrefixSearchNoMatch(t *testing.T) {
	trie := buildTrie("abc")
	assert.Empty(t, trie.CommonPrefixSearch("xyz"))
	assert.Empty(t, trie.CommonPrefixSearch(""))
}

func TestCommonPrefixSearchDedup(t *testing.T) {
	b := NewBuilder()
	b.Add("abc", nil)
	b.Add("abc", nil)
	trie := b.Build()
	assert.Equal(t, 1, trie.NumKeys())
	assert.Equal(t, []string{"abc"}, trie.CommonPrefixSearch("abc"))
}

func TestGet(t *testing.T) {
	b := NewBuilder()
	b.Add("たなか", []byte("田中"))
	trie := b.Build()

	v, ok := trie.Get("たなか")
	require.True(t, ok)
	assert.Equal(t, "田中", string(v))

	_, ok = trie.Get("たな")
	assert.False(t, ok)
}

func TestPredictiveSearch(t *testing.T) {
	b := NewBuilder()
	b.Add("わたし\t私/渡し", nil)
	b.Add("わたしたち\t私達", nil)
	b.Add("わた\t綿", nil)
	trie := b.Build()

	got := trie.PredictiveSearch("わたし\t")
	require.Len(t, got, 1)
	assert.Equal(t, "わたし\t私/渡し", got[0].Key)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	trie := buildTrie("わたし", "わた", "わし", "ほげほげ")

	var buf bytes.Buffer
	require.NoError(t, trie.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	query := "わたしのきもち"
	assert.Equal(t, trie.CommonPrefixSearch(query), loaded.CommonPrefixSearch(query))
	assert.Equal(t, trie.NumKeys(), loaded.NumKeys())
}

func TestSaveLoadRoundTripWithValues(t *testing.T) {
	b := NewBuilder()
	b.Add("surface/reading", []byte{0, 0, 1, 0, 0, 0, 0})
	trie := b.Build()

	var buf bytes.Buffer
	require.NoError(t, trie.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	v, ok := loaded.Get("surface/reading")
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 1, 0, 0, 0, 0}, v)
}
