// Package louds implements the compact prefix trie shared by the kana
// trie, the kana-kanji dictionary, and both language models. It is not
// a literal LOUDS/MARISA bit-packed trie (the originating crates used
// cgo-shaped FFI to crawdad/marisa_sys with no Go equivalent anywhere
// in the corpus this port is grounded on) but a pointer-free array of
// nodes that gob-encodes to the same bytes for the same keys and
// payloads added in the same order, regardless of process-local map
// iteration order. Node indices follow insertion order, so the same
// keys added in a different order encode to different bytes.
package louds

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"sort"
)

// node is one trie vertex. Children are keyed by the next input byte
// so CommonPrefixSearch/PredictiveSearch both cost O(|query|) map
// lookups down to the node of interest.
type node struct {
	Children map[byte]int32
	Terminal bool
	Value    []byte
}

// Trie is an immutable, built prefix trie over byte-string keys.
type Trie struct {
	nodes   []node
	numKeys int
}

// Builder accumulates keys (and optional payloads) before Build.
type Builder struct {
	t *Trie
}

// NewBuilder starts an empty trie with just a root node.
func NewBuilder() *Builder {
	return &Builder{t: &Trie{nodes: []node{{Children: map[byte]int32{}}}}}
}

// Add inserts key with an optional value payload (nil for trie roles
// that carry no value, such as the kana trie and the kana-kanji
// dictionary, whose payload is baked into the key itself). Adding the
// same key twice is idempotent and simply replaces the payload.
func (b *Builder) Add(key string, value []byte) {
	cur := int32(0)
	for i := 0; i < len(key); i++ {
		c := key[i]
		next, ok := b.t.nodes[cur].Children[c]
		if !ok {
			b.t.nodes = append(b.t.nodes, node{Children: map[byte]int32{}})
			next = int32(len(b.t.nodes) - 1)
			b.t.nodes[cur].Children[c] = next
		}
		cur = next
	}
	if !b.t.nodes[cur].Terminal {
		b.t.numKeys++
	}
	b.t.nodes[cur].Terminal = true
	b.t.nodes[cur].Value = value
}

// Build finalizes the trie. The Builder must not be reused afterward.
func (b *Builder) Build() *Trie {
	return b.t
}

// NumKeys returns the number of distinct terminal keys in the trie.
func (t *Trie) NumKeys() int {
	return t.numKeys
}

// walk follows key byte-by-byte from the root, returning the node
// index reached and how many bytes were consumed before a missing
// child stopped the walk (ok is false only if the walk stopped short
// of len(key)).
func (t *Trie) walk(key string) (idx int32, consumed int, ok bool) {
	cur := int32(0)
	for i := 0; i < len(key); i++ {
		next, found := t.nodes[cur].Children[key[i]]
		if !found {
			return cur, i, false
		}
		cur = next
	}
	return cur, len(key), true
}

// Get looks up an exact key and returns its payload.
func (t *Trie) Get(key string) ([]byte, bool) {
	idx, _, ok := t.walk(key)
	if !ok || !t.nodes[idx].Terminal {
		return nil, false
	}
	return t.nodes[idx].Value, true
}

// CommonPrefixSearch returns every trie key that is a prefix of query,
// in ascending length order. An empty query returns no matches.
func (t *Trie) CommonPrefixSearch(query string) []string {
	if query == "" {
		return nil
	}
	var matches []string
	cur := int32(0)
	for i := 0; i < len(query); i++ {
		if t.nodes[cur].Terminal {
			matches = append(matches, query[:i])
		}
		next, found := t.nodes[cur].Children[query[i]]
		if !found {
			return matches
		}
		cur = next
	}
	if t.nodes[cur].Terminal {
		matches = append(matches, query)
	}
	return matches
}

// PredictiveSearch returns every trie key that starts with prefix, in
// ascending lexicographic order, along with each key's payload.
func (t *Trie) PredictiveSearch(prefix string) []Match {
	cur, _, ok := t.walk(prefix)
	if !ok {
		return nil
	}
	var out []Match
	t.collect(cur, prefix, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Match is one (key, payload) result of a predictive search.
type Match struct {
	Key   string
	Value []byte
}

func (t *Trie) collect(idx int32, prefix string, out *[]Match) {
	n := &t.nodes[idx]
	if n.Terminal {
		*out = append(*out, Match{Key: prefix, Value: n.Value})
	}
	for b, child := range n.Children {
		t.collect(child, prefix+string(b), out)
	}
}

// gobEdge is one (byte, child index) pair. gobNode stores Children as a
// slice of these, sorted by B, instead of a map: gob happily encodes a
// map[byte]int32, but Go randomizes map iteration order per process, so
// two encodes of the identical logical trie in two different process
// runs produce two different byte sequences. Sorting the edges before
// encoding makes the wire bytes a pure function of the trie's content.
type gobEdge struct {
	B   byte
	Idx int32
}

// gobNode/gobTrie are plain serializable mirrors of node/Trie: gob
// cannot encode unexported fields, and keeping the wire shape separate
// from the in-memory shape avoids coupling the format to however the
// search algorithms happen to be implemented today.
type gobNode struct {
	Children []gobEdge
	Terminal bool
	Value    []byte
}

type gobTrie struct {
	Nodes   []gobNode
	NumKeys int
}

func toGobNode(n node) gobNode {
	edges := make([]gobEdge, 0, len(n.Children))
	for b, idx := range n.Children {
		edges = append(edges, gobEdge{B: b, Idx: idx})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].B < edges[j].B })
	return gobNode{Children: edges, Terminal: n.Terminal, Value: n.Value}
}

func fromGobNode(gn gobNode) node {
	children := make(map[byte]int32, len(gn.Children))
	for _, e := range gn.Children {
		children[e.B] = e.Idx
	}
	return node{Children: children, Terminal: gn.Terminal, Value: gn.Value}
}

// Save writes a deterministic gob encoding of the trie: the same keys
// and payloads added in the same order always produce byte-identical
// output, regardless of Go's per-process map iteration randomization,
// because each node's children are sorted by byte before encoding.
// Node indices are not renumbered, so a different insertion order
// produces different bytes.
func (t *Trie) Save(w io.Writer) error {
	gt := gobTrie{Nodes: make([]gobNode, len(t.nodes)), NumKeys: t.numKeys}
	for i, n := range t.nodes {
		gt.Nodes[i] = toGobNode(n)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&gt); err != nil {
		return fmt.Errorf("louds: encode trie: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Load reads a trie previously written by Save.
func Load(r io.Reader) (*Trie, error) {
	var gt gobTrie
	if err := gob.NewDecoder(r).Decode(&gt); err != nil {
		return nil, fmt.Errorf("louds: decode trie: %w", err)
	}
	t := &Trie{nodes: make([]node, len(gt.Nodes)), numKeys: gt.NumKeys}
	for i, n := range gt.Nodes {
		t.nodes[i] = fromGobNode(n)
	}
	return t, nil
}
