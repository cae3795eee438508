package lm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/mmizutani/akaza/internal/louds"
)

// encodeID3 packs id into 3 big-endian bytes, the bigram trie's key
// layout. Callers are expected to only pass ids below MaxWords.
func encodeID3(id uint32) [3]byte {
	return [3]byte{byte(id >> 16), byte(id >> 8), byte(id)}
}

func bigramKey(id1, id2 uint32) string {
	a := encodeID3(id1)
	b := encodeID3(id2)
	buf := make([]byte, 6)
	copy(buf[0:3], a[:])
	copy(buf[3:6], b[:])
	return string(buf)
}

// Bigram is a loaded, read-only bigram language model.
type Bigram struct {
	trie *louds.Trie
}

// Find looks up the cost of the (id1, id2) pair.
func (bg *Bigram) Find(id1, id2 uint32) (float32, bool) {
	payload, ok := bg.trie.Get(bigramKey(id1, id2))
	if !ok {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(payload)), true
}

// BigramBuilder assembles a bigram model.
type BigramBuilder struct {
	b *louds.Builder
}

// NewBigramBuilder starts an empty bigram model builder.
func NewBigramBuilder() *BigramBuilder {
	return &BigramBuilder{b: louds.NewBuilder()}
}

// Add registers the (id1, id2) pair's cost.
func (bb *BigramBuilder) Add(id1, id2 uint32, cost float32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(cost))
	bb.b.Add(bigramKey(id1, id2), buf)
}

// Build finalizes the model.
func (bb *BigramBuilder) Build() *Bigram {
	return &Bigram{trie: bb.b.Build()}
}

// Save persists the model in the shared trie format.
func (bg *Bigram) Save(w io.Writer) error {
	if err := bg.trie.Save(w); err != nil {
		return fmt.Errorf("lm: save bigram: %w", err)
	}
	return nil
}

// LoadBigram reads a model previously written by Save.
func LoadBigram(r io.Reader) (*Bigram, error) {
	trie, err := louds.Load(r)
	if err != nil {
		return nil, fmt.Errorf("lm: load bigram: %w", err)
	}
	return &Bigram{trie: trie}, nil
}
