package userdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnseenCostIsZero(t *testing.T) {
	s := New(0)
	assert.Equal(t, float32(0), s.GetUnigramCost("私/わたし"))
	assert.Equal(t, float32(0), s.GetBigramCost("私/わたし", "名前/なまえ"))
}

func TestRecordEntriesIncreasesUnigramCost(t *testing.T) {
	s := New(0)
	before := s.GetUnigramCost("私/わたし")
	require.NoError(t, s.RecordEntries([]string{"私/わたし"}))
	after := s.GetUnigramCost("私/わたし")
	assert.Greater(t, after, before)
}

func TestRecordEntriesRepeatedMonotonicallyIncreases(t *testing.T) {
	s := New(0)
	require.NoError(t, s.RecordEntries([]string{"私/わたし"}))
	first := s.GetUnigramCost("私/わたし")
	require.NoError(t, s.RecordEntries([]string{"私/わたし"}))
	second := s.GetUnigramCost("私/わたし")
	assert.Greater(t, second, first)
}

func TestRecordEntriesBigram(t *testing.T) {
	s := New(0)
	require.NoError(t, s.RecordEntries([]string{"私/わたし", "名前/なまえ"}))

	assert.Greater(t, s.GetBigramCost("私/わたし", "名前/なまえ"), float32(0))
	assert.Equal(t, float32(0), s.GetBigramCost("名前/なまえ", "私/わたし"))
}

func TestDecayReducesOldEntries(t *testing.T) {
	s := New(time.Millisecond)
	require.NoError(t, s.RecordEntries([]string{"私/わたし"}))
	fresh := s.GetUnigramCost("私/わたし")

	// Manually age the entry well past several half-lives.
	s.mu.Lock()
	s.unigram["私/わたし"].lastTouched = time.Now().Add(-time.Second)
	s.mu.Unlock()

	decayed := s.GetUnigramCost("私/わたし")
	assert.Less(t, decayed, fresh)
	assert.Equal(t, float32(0), decayed)
}

func TestOpenReplaysLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "userdata.log")

	s1, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s1.RecordEntries([]string{"私/わたし", "名前/なまえ"}))
	require.NoError(t, s1.Close())

	s2, err := Open(path, 0)
	require.NoError(t, err)
	defer s2.Close()

	assert.Greater(t, s2.GetUnigramCost("私/わたし"), float32(0))
	assert.Greater(t, s2.GetBigramCost("私/わたし", "名前/なまえ"), float32(0))
}

func TestFlushCompactsLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "userdata.log")

	s, err := Open(path, 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordEntries([]string{"私/わたし"}))
	}
	before := s.GetUnigramCost("私/わたし")
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lineCount := 0
	for _, b := range data {
		if b == '\n' {
			lineCount++
		}
	}
	assert.Equal(t, 1, lineCount)
	assert.InDelta(t, before, s.GetUnigramCost("私/わたし"), 1e-3)
}
