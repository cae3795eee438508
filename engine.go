// Package akaza wires the kana trie, dictionary, language models,
// user-data store, romaji transliterator, segmenter, graph builder,
// and resolver into a single conversion engine, the same role
// original_source/akaza-core/libakaza/src/akaza_builder.rs's Akaza
// struct plays for the Rust project and ibus-akaza/src/context.rs
// drives from keystrokes.
package akaza

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mmizutani/akaza/config"
	"github.com/mmizutani/akaza/dict"
	"github.com/mmizutani/akaza/graph"
	"github.com/mmizutani/akaza/lm"
	"github.com/mmizutani/akaza/resolver"
	"github.com/mmizutani/akaza/romaji"
	"github.com/mmizutani/akaza/segmenter"
	"github.com/mmizutani/akaza/userdata"
)

// openExisting opens path for reading a built system file.
func openExisting(path string) (*os.File, error) {
	return os.Open(path)
}

// Engine is a ready-to-use conversion pipeline: immutable,
// re-entrant dictionary/language-model state plus a mutable,
// internally-synchronized user-data store, safe for concurrent use.
type Engine struct {
	dict    *dict.Dict
	unigram *lm.Unigram
	bigram  *lm.Bigram
	user    *userdata.Store
	romaji  *romaji.Converter
	builder *graph.Builder
	resolve *resolver.Resolver
}

// New assembles an Engine from already-loaded components. Most
// callers want Load instead; New is exposed for tests and for hosts
// that build their own in-memory fixtures.
func New(d *dict.Dict, uni *lm.Unigram, bi *lm.Bigram, user *userdata.Store, rom *romaji.Converter, penaltyUnknown, backoffAlpha float32) *Engine {
	b := graph.NewBuilder(d, uni, bi, user, penaltyUnknown, backoffAlpha)
	return &Engine{
		dict:    d,
		unigram: uni,
		bigram:  bi,
		user:    user,
		romaji:  rom,
		builder: b,
		resolve: resolver.New(b),
	}
}

// Load reads the system dictionary and language models plus the
// per-user learning log from the paths cfg describes, and wires them
// into an Engine with the default romaji table.
func Load(cfg config.Config) (*Engine, error) {
	d, err := loadDict(cfg.SystemDictPath())
	if err != nil {
		return nil, err
	}
	uni, err := loadUnigram(cfg.SystemUnigramPath())
	if err != nil {
		return nil, err
	}
	bi, err := loadBigram(cfg.SystemBigramPath())
	if err != nil {
		return nil, err
	}
	user, err := userdata.Open(cfg.UserDataPath, cfg.HalfLife)
	if err != nil {
		err = fmt.Errorf("akaza: open user data: %w", err)
		log.Error().Err(err).Str("path", cfg.UserDataPath).Msg("failed to open user data")
		return nil, err
	}
	return New(d, uni, bi, user, romaji.DefaultConverter(), cfg.PenaltyUnknown, cfg.BackoffAlpha), nil
}

// Convert runs the full segmentation-to-resolution pipeline over an
// already-hiragana yomi string and returns the single best mixed
// kanji/kana rendering.
func (e *Engine) Convert(yomi string) (string, error) {
	if yomi == "" {
		return "", nil
	}
	seg := segmenter.Build(yomi, e.dict)
	lattice := e.builder.Construct(yomi, seg)
	return e.resolve.Viterbi(lattice)
}

// ConvertToString transliterates roman preedit input to hiragana
// before converting it, the path a live IME takes from raw keystrokes
// to a surface string.
func (e *Engine) ConvertToString(roman string) (string, error) {
	return e.Convert(e.romaji.ToHiragana(roman))
}

// ConvertNBest runs the same pipeline as Convert but returns every
// clause's ranked candidate list, for UI candidate windows.
func (e *Engine) ConvertNBest(yomi string) ([]resolver.Clause, error) {
	if yomi == "" {
		return nil, nil
	}
	seg := segmenter.Build(yomi, e.dict)
	lattice := e.builder.Construct(yomi, seg)
	return e.resolve.ViterbiNBest(lattice)
}

// Learn records a chosen clause sequence ("surface/reading" word keys,
// in conversion order) into the user-data store, so future conversions
// favor it.
func (e *Engine) Learn(clauses []string) error {
	return e.user.RecordEntries(clauses)
}

// Close flushes the user-data store's compacted log to disk.
func (e *Engine) Close() error {
	return e.user.Close()
}

func loadDict(path string) (*dict.Dict, error) {
	f, err := openExisting(path)
	if err != nil {
		err = fmt.Errorf("akaza: open dict %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to open dictionary")
		return nil, err
	}
	defer f.Close()
	d, err := dict.Load(f)
	if err != nil {
		err = fmt.Errorf("akaza: load dict %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to load dictionary")
		return nil, err
	}
	return d, nil
}

func loadUnigram(path string) (*lm.Unigram, error) {
	f, err := openExisting(path)
	if err != nil {
		err = fmt.Errorf("akaza: open unigram %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to open unigram model")
		return nil, err
	}
	defer f.Close()
	u, err := lm.LoadUnigram(f)
	if err != nil {
		err = fmt.Errorf("akaza: load unigram %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to load unigram model")
		return nil, err
	}
	return u, nil
}

func loadBigram(path string) (*lm.Bigram, error) {
	f, err := openExisting(path)
	if err != nil {
		err = fmt.Errorf("akaza: open bigram %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to open bigram model")
		return nil, err
	}
	defer f.Close()
	bg, err := lm.LoadBigram(f)
	if err != nil {
		err = fmt.Errorf("akaza: load bigram %s: %w", path, err)
		log.Error().Err(err).Str("path", path).Msg("failed to load bigram model")
		return nil, err
	}
	return bg, nil
}
