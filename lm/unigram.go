// Package lm implements the unigram and bigram language models: tries
// keyed by word ("surface/reading") or by a raw 6-byte id pair,
// carrying packed id+cost or cost-only payloads. The byte layout and
// build behavior (id assignment order, the 2^23 overflow guard, and
// the "skip, don't fail" handling of bigram lines that reference an
// unknown word) follow
// original_source/akaza-core/bin/akaza-make-system-lm/src/main.rs.
package lm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mmizutani/akaza/internal/louds"
)

// MaxWords is the largest number of distinct unigram entries a model
// can hold: ids must fit in 3 bytes, a hard invariant of the unigram
// file format.
const MaxWords = 1 << 23

// ErrTooManyWords is returned by UnigramBuilder.Add once MaxWords
// entries have already been assigned an id.
var ErrTooManyWords = errors.New("lm: too many words for a 3-byte id")

// defaultCostMargin is subtracted from the minimum observed unigram
// cost to produce DefaultCost(), so that any fallback path scores
// strictly worse than every word the model has actually seen.
const defaultCostMargin = 1.0

// UnigramEntry is one (id, cost) lookup result.
type UnigramEntry struct {
	ID   uint32
	Cost float32
}

// Unigram is a loaded, read-only unigram language model.
type Unigram struct {
	trie        *louds.Trie
	numKeys     uint32
	defaultCost float32
}

// Find looks up word ("surface/reading") and returns its id and cost.
func (u *Unigram) Find(word string) (UnigramEntry, bool) {
	payload, ok := u.trie.Get(word)
	if !ok {
		return UnigramEntry{}, false
	}
	return decodeUnigramPayload(payload), true
}

// NumKeys returns the number of distinct words in the model.
func (u *Unigram) NumKeys() uint32 {
	return u.numKeys
}

// DefaultCost returns the fallback cost the graph builder uses for
// words absent from the model, before the unknown-word penalty is
// applied.
func (u *Unigram) DefaultCost() float32 {
	return u.defaultCost
}

func encodeUnigramPayload(id uint32, cost float32) []byte {
	buf := make([]byte, 7)
	buf[0] = byte(id >> 16)
	buf[1] = byte(id >> 8)
	buf[2] = byte(id)
	binary.LittleEndian.PutUint32(buf[3:], math.Float32bits(cost))
	return buf
}

func decodeUnigramPayload(buf []byte) UnigramEntry {
	id := uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
	cost := math.Float32frombits(binary.LittleEndian.Uint32(buf[3:]))
	return UnigramEntry{ID: id, Cost: cost}
}

// UnigramBuilder assembles a unigram model, assigning ids in the order
// words are added.
type UnigramBuilder struct {
	b       *louds.Builder
	seen    map[string]uint32
	nextID  uint32
	minCost float32
	any     bool
}

// NewUnigramBuilder starts an empty unigram model builder.
func NewUnigramBuilder() *UnigramBuilder {
	return &UnigramBuilder{b: louds.NewBuilder(), seen: make(map[string]uint32)}
}

// Add registers word with the given cost, assigning it the next
// available id. Returns ErrTooManyWords once MaxWords ids have been
// handed out. Adding the same word twice keeps its original id but
// updates its cost, so a unigram source that repeats a word never
// strands the word's first id behind an unreachable, overwritten entry.
func (ub *UnigramBuilder) Add(word string, cost float32) error {
	id, ok := ub.seen[word]
	if !ok {
		if ub.nextID >= MaxWords {
			return fmt.Errorf("lm: adding %q: %w", word, ErrTooManyWords)
		}
		id = ub.nextID
		ub.nextID++
		ub.seen[word] = id
	}
	if !ub.any || cost < ub.minCost {
		ub.minCost = cost
		ub.any = true
	}
	ub.b.Add(word, encodeUnigramPayload(id, cost))
	return nil
}

// Build finalizes the model.
func (ub *UnigramBuilder) Build() *Unigram {
	return &Unigram{
		trie:        ub.b.Build(),
		numKeys:     ub.nextID,
		defaultCost: ub.minCost - defaultCostMargin,
	}
}

// Save persists the model in the shared trie format.
func (u *Unigram) Save(w io.Writer) error {
	if err := u.trie.Save(w); err != nil {
		return fmt.Errorf("lm: save unigram: %w", err)
	}
	return nil
}

// LoadUnigram reads a model previously written by Save. numKeys and
// defaultCost are derived by scanning every entry once, since the trie
// format itself carries no header.
func LoadUnigram(r io.Reader) (*Unigram, error) {
	trie, err := louds.Load(r)
	if err != nil {
		return nil, fmt.Errorf("lm: load unigram: %w", err)
	}
	u := &Unigram{trie: trie}
	var minCost float32
	var any bool
	var maxID uint32
	for _, m := range trie.PredictiveSearch("") {
		e := decodeUnigramPayload(m.Value)
		if !any || e.Cost < minCost {
			minCost = e.Cost
			any = true
		}
		if e.ID+1 > maxID {
			maxID = e.ID + 1
		}
	}
	u.numKeys = maxID
	u.defaultCost = minCost - defaultCostMargin
	return u, nil
}
