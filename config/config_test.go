package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigResolvesPaths(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.SystemDataDir)
	assert.NotEmpty(t, cfg.UserDataPath)
	assert.Equal(t, float32(5.0), cfg.PenaltyUnknown)
	assert.Equal(t, float32(0.5), cfg.BackoffAlpha)
}

func TestSystemFilePathsAreUnderSystemDataDir(t *testing.T) {
	cfg := Config{SystemDataDir: "/tmp/akaza-test"}
	assert.Equal(t, "/tmp/akaza-test/unigram.trie", cfg.SystemUnigramPath())
	assert.Equal(t, "/tmp/akaza-test/bigram.trie", cfg.SystemBigramPath())
	assert.Equal(t, "/tmp/akaza-test/dict.trie", cfg.SystemDictPath())
}
