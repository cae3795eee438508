// Package config resolves the file-system layout and tuning constants
// the engine needs at startup: where system language-model/dictionary
// files live, where the per-user learning log is kept, and the decay
// half-life and cost-model constants tuning the conversion graph. The
// original Rust project split this across a dedicated akaza-conf
// crate; this port folds the same responsibility into one small
// struct, resolved against the XDG base directory spec the way
// tassa-yoniso-manasi-karoto-go-ichiran's go.mod already pulls in
// github.com/adrg/xdg for.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	"github.com/mmizutani/akaza/userdata"
)

// appName names this engine's subdirectory under the XDG data/config
// home, e.g. ~/.local/share/akaza and ~/.config/akaza.
const appName = "akaza"

// Config bundles every path and tuning constant the engine's
// components are wired from.
type Config struct {
	// SystemDataDir holds the built system dictionary, unigram, and
	// bigram model files (cmd/akaza-make-system-lm builds the unigram
	// and bigram ones).
	SystemDataDir string
	// UserDataPath is the append-only per-user learning log the
	// user-data store reads and writes.
	UserDataPath string
	// HalfLife is the user-data decay half-life.
	HalfLife time.Duration
	// PenaltyUnknown and BackoffAlpha are the graph builder's two
	// tuning constants; see DESIGN.md for the values and reasoning
	// this port settled on.
	PenaltyUnknown float32
	BackoffAlpha   float32
}

// DefaultConfig resolves a Config rooted at the user's XDG data
// directory, with the tuning constants DESIGN.md documents the
// reasoning for.
func DefaultConfig() (Config, error) {
	dataDir, err := xdg.DataFile(filepath.Join(appName, "system"))
	if err != nil {
		err = fmt.Errorf("config: resolve system data dir: %w", err)
		log.Error().Err(err).Msg("failed to resolve XDG system data directory")
		return Config{}, err
	}
	userData, err := xdg.DataFile(filepath.Join(appName, "userdata.log"))
	if err != nil {
		err = fmt.Errorf("config: resolve user data path: %w", err)
		log.Error().Err(err).Msg("failed to resolve XDG user data path")
		return Config{}, err
	}
	return Config{
		SystemDataDir:  filepath.Dir(dataDir),
		UserDataPath:   userData,
		HalfLife:       userdata.DefaultHalfLife,
		PenaltyUnknown: 5.0,
		BackoffAlpha:   0.5,
	}, nil
}

// SystemUnigramPath, SystemBigramPath, and SystemDictPath locate the
// three system files under SystemDataDir; cmd/akaza-make-system-lm
// produces the unigram and bigram files, not the dictionary.
func (c Config) SystemUnigramPath() string { return filepath.Join(c.SystemDataDir, "unigram.trie") }
func (c Config) SystemBigramPath() string  { return filepath.Join(c.SystemDataDir, "bigram.trie") }
func (c Config) SystemDictPath() string    { return filepath.Join(c.SystemDataDir, "dict.trie") }
