// Package dict implements the kana-to-kanji dictionary and its
// companion kana trie: a mapping from a hiragana reading
// to an ordered list of surface forms, backed by the same trie
// container the language models use, plus a second, reading-only trie
// used for segmentation's common-prefix search. Each dict entry is
// stored as a single trie key of the shape "reading\tsurf1/surf2/...",
// following libakaza/src/kana_kanji/marisa_kana_kanji_dict.rs almost
// directly: there is no separate value payload, the whole encoded
// string is the key, and lookup is a predictive search on "reading\t".
// The companion kana trie holds just the readings themselves, the way
// libakaza/src/kana_trie/crawdad_kana_trie.rs's CrawdadKanaTrie is
// built from the dictionary's own key list.
package dict

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmizutani/akaza/internal/louds"
)

const separator = "\t"

// Dict is an immutable, loaded kana-kanji dictionary. It also answers
// CommonPrefixSearch, making it usable directly as a
// segmenter.CommonPrefixSearcher.
type Dict struct {
	trie *louds.Trie
	kana *louds.Trie
}

// Builder accumulates reading -> surfaces entries before Build.
type Builder struct {
	b    *louds.Builder
	kana *louds.Builder
	seen map[string]bool
}

// NewBuilder starts an empty dictionary builder.
func NewBuilder() *Builder {
	return &Builder{b: louds.NewBuilder(), kana: louds.NewBuilder(), seen: make(map[string]bool)}
}

// Add registers reading -> surfaces, preserving surfaces' order as the
// candidate preference order. Calling Add again for the same reading
// with a different surfaces slice does not replace the earlier entry:
// the trie key encodes the full value, so both keys are kept, and Get
// returns whichever one sorts first byte-wise, which is not necessarily
// the one added last.
func (b *Builder) Add(reading string, surfaces []string) {
	if len(surfaces) == 0 {
		return
	}
	key := reading + separator + strings.Join(surfaces, "/")
	b.b.Add(key, nil)
	if !b.seen[reading] {
		b.seen[reading] = true
		b.kana.Add(reading, nil)
	}
}

// Build finalizes the dictionary.
func (b *Builder) Build() *Dict {
	return &Dict{trie: b.b.Build(), kana: b.kana.Build()}
}

// Get returns the ordered surface-form candidates for reading, or
// (nil, false) if the dictionary has no entry for it. Callers
// typically fall back to treating reading as its own surface form
// when Get reports no entry.
func (d *Dict) Get(reading string) ([]string, bool) {
	matches := d.trie.PredictiveSearch(reading + separator)
	if len(matches) == 0 {
		return nil, false
	}
	_, payload, ok := strings.Cut(matches[0].Key, separator)
	if !ok {
		return nil, false
	}
	return strings.Split(payload, "/"), true
}

// CommonPrefixSearch returns every known reading that is a prefix of
// query, in ascending length order, satisfying the segmenter's lookup
// contract.
func (d *Dict) CommonPrefixSearch(query string) []string {
	return d.kana.CommonPrefixSearch(query)
}

// Save persists the dictionary, writing the surface-form trie followed
// by the companion reading-only kana trie.
func (d *Dict) Save(w io.Writer) error {
	if err := d.trie.Save(w); err != nil {
		return fmt.Errorf("dict: save dict trie: %w", err)
	}
	if err := d.kana.Save(w); err != nil {
		return fmt.Errorf("dict: save kana trie: %w", err)
	}
	return nil
}

// Load reads a dictionary previously written by Save.
func Load(r io.Reader) (*Dict, error) {
	trie, err := louds.Load(r)
	if err != nil {
		return nil, fmt.Errorf("dict: load dict trie: %w", err)
	}
	kana, err := louds.Load(r)
	if err != nil {
		return nil, fmt.Errorf("dict: load kana trie: %w", err)
	}
	return &Dict{trie: trie, kana: kana}, nil
}
