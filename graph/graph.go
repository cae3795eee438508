// Package graph builds the conversion lattice: one node per
// (substring, surface-form) candidate the segmenter's common-prefix
// search turned up, bucketed by byte position so the resolver can walk
// it left to right, plus the node and edge cost arithmetic that wires
// the dictionary, both language models, and the user-data store
// together into a single score. The node/edge cost formulas and the
// BOS/EOS sentinels are grounded directly on
// original_source/akaza-core/libakaza/src/graph/graph_resolver.rs's
// test_resolver/test_kana_kanji fixtures (the "abc"/"ab"+"c" and
// "私" vs "渡し" examples).
package graph

import (
	"errors"
	"fmt"

	"github.com/mmizutani/akaza/lm"
)

// BOSWordKey and EOSWordKey are the sentinel word identities assigned
// to the lattice's synthetic start/end nodes.
const (
	BOSWordKey = "__BOS__/"
	EOSWordKey = "__EOS__/"
)

// ErrIncompleteLattice is returned when a node's predecessor bucket is
// empty, meaning the segmentation that produced the lattice left a gap
// an adjacent substring should have bridged. This is a programmer
// error, reported to the caller rather than panicking.
var ErrIncompleteLattice = errors.New("graph: incomplete lattice: node has no predecessors")

// Node is one lattice vertex: a specific (yomi substring, surface
// form) candidate anchored at a byte range of the original reading.
type Node struct {
	StartPos     int
	EndPos       int // inclusive; EndPos < StartPos marks the BOS sentinel
	Yomi         string
	Surface      string
	WordKey      string // "surface/yomi", or a __BOS__/__EOS__ sentinel
	UnigramID    uint32
	HasUnigramID bool
	Cost         float32 // node cost only: LM cost (or penalized fallback) + user-data bonus
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%d..%d)", n.Surface, n.StartPos, n.EndPos)
}

// Dict is the subset of *dict.Dict the builder needs.
type Dict interface {
	Get(reading string) ([]string, bool)
}

// Unigram is the subset of *lm.Unigram the builder needs.
type Unigram interface {
	Find(word string) (lm.UnigramEntry, bool)
	DefaultCost() float32
}

// Bigram is the subset of *lm.Bigram the builder needs.
type Bigram interface {
	Find(id1, id2 uint32) (float32, bool)
}

// UserData is the subset of *userdata.Store the builder needs.
type UserData interface {
	GetUnigramCost(word string) float32
	GetBigramCost(w1, w2 string) float32
}

// Segmentation is the subset of segmenter.Result the builder needs.
type Segmentation interface {
	EndOffsets() []int
	SubstringsEndingAt(end int) []string
}

// Lattice is a built conversion graph over one yomi string. Nodes are
// bucketed by EndPos+1 (BOS occupies bucket 0, EOS occupies bucket
// len(Yomi)+1), which doubles as the StartPos every following node
// looks its predecessors up by.
type Lattice struct {
	Yomi    string
	buckets map[int][]*Node
	bos     *Node
	eos     *Node
}

// NodesAt returns every node whose bucket is i, i.e. every node whose
// EndPos+1 == i (or the BOS/EOS sentinel, at buckets 0 and
// len(Yomi)+1 respectively).
func (l *Lattice) NodesAt(i int) []*Node {
	return l.buckets[i]
}

// Predecessors returns every node immediately preceding n: those whose
// EndPos+1 equals n.StartPos.
func (l *Lattice) Predecessors(n *Node) []*Node {
	return l.buckets[n.StartPos]
}

// BOS and EOS return the lattice's sentinel start/end nodes.
func (l *Lattice) BOS() *Node { return l.bos }
func (l *Lattice) EOS() *Node { return l.eos }

// Builder assembles a Lattice from a segmentation result, wiring in a
// dictionary, both language models, and a user-data store.
type Builder struct {
	dict          Dict
	unigram       Unigram
	bigram        Bigram
	userData      UserData
	penaltyUnknown float32
	backoffAlpha  float32
}

// NewBuilder wires the graph builder's dependencies. penaltyUnknown
// and backoffAlpha are the two tuning constants the cost model exposes
// for the caller to set; see DESIGN.md for the values this port
// settled on.
func NewBuilder(d Dict, uni Unigram, bi Bigram, ud UserData, penaltyUnknown, backoffAlpha float32) *Builder {
	return &Builder{dict: d, unigram: uni, bigram: bi, userData: ud, penaltyUnknown: penaltyUnknown, backoffAlpha: backoffAlpha}
}

// Construct builds a lattice over yomi from seg, the segmenter's
// common-prefix decomposition of it.
func (b *Builder) Construct(yomi string, seg Segmentation) *Lattice {
	l := &Lattice{Yomi: yomi, buckets: make(map[int][]*Node)}

	l.bos = &Node{StartPos: 0, EndPos: -1, WordKey: BOSWordKey}
	l.buckets[0] = []*Node{l.bos}

	for _, end := range seg.EndOffsets() {
		for _, sub := range seg.SubstringsEndingAt(end) {
			start := end - len(sub)
			surfaces, ok := b.dict.Get(sub)
			if !ok {
				surfaces = []string{sub}
			}
			for _, surf := range surfaces {
				node := b.buildNode(start, end, sub, surf)
				l.buckets[end] = append(l.buckets[end], node)
			}
		}
	}

	l.eos = &Node{StartPos: len(yomi), EndPos: len(yomi), WordKey: EOSWordKey}
	l.buckets[len(yomi)+1] = []*Node{l.eos}

	return l
}

func (b *Builder) buildNode(start, end int, yomi, surface string) *Node {
	wordKey := surface + "/" + yomi
	node := &Node{StartPos: start, EndPos: end - 1, Yomi: yomi, Surface: surface, WordKey: wordKey}

	if entry, ok := b.unigram.Find(wordKey); ok {
		node.UnigramID = entry.ID
		node.HasUnigramID = true
		node.Cost = entry.Cost
	} else {
		node.Cost = b.unigram.DefaultCost() - b.penaltyUnknown
	}
	node.Cost += b.userData.GetUnigramCost(wordKey)
	return node
}

// EdgeCost returns the transition cost from prev to n: an exact
// bigram cost when both words carry a unigram id and the pair is
// known, else a linear unigram-cost back-off, plus a user-data bigram
// bonus.
func (b *Builder) EdgeCost(prev, n *Node) float32 {
	var cost float32
	if prev.HasUnigramID && n.HasUnigramID {
		if c, ok := b.bigram.Find(prev.UnigramID, n.UnigramID); ok {
			cost = c
		} else {
			cost = n.Cost * b.backoffAlpha
		}
	} else {
		cost = n.Cost * b.backoffAlpha
	}
	return cost + b.userData.GetBigramCost(prev.WordKey, n.WordKey)
}
