// Package resolver implements the Viterbi decoder: a forward
// dynamic-programming pass over a lattice's buckets to find the
// maximum-cost BOS-to-EOS path, backtracking to read off the winning
// surface string, plus an n-best pass that lists each chosen clause's
// runner-up candidates for UI display. Both are near-line-for-line
// ports of original_source/akaza-core/libakaza/src/graph/graph_resolver.rs's
// GraphResolver::viterbi, including its strict "cost < tmp_cost"
// tie-break (first-seen-wins on ties) and, for the n-best pass,
// scoring alternatives against the chosen predecessor rather than
// each alternative's own locally optimal one.
package resolver

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mmizutani/akaza/graph"
)

// EdgeCoster is the subset of *graph.Builder the resolver needs: the
// edge-cost function that combines bigram/back-off cost with the
// user-data bonus (graph.Builder.EdgeCost).
type EdgeCoster interface {
	EdgeCost(prev, n *graph.Node) float32
}

// Resolver runs Viterbi decoding over a lattice built with edges.
type Resolver struct {
	edges EdgeCoster
}

// New wires a Resolver to the same edge-cost function its lattice was
// built with.
func New(edges EdgeCoster) *Resolver {
	return &Resolver{edges: edges}
}

// run is the shared forward pass: for every node in bucket order,
// pick the predecessor maximizing prevScore + edgeCost + nodeCost,
// breaking ties by keeping whichever predecessor was seen first
// (replacement uses strict >, never >=).
func (r *Resolver) run(l *graph.Lattice) (score map[*graph.Node]float32, prev map[*graph.Node]*graph.Node, err error) {
	score = make(map[*graph.Node]float32)
	prev = make(map[*graph.Node]*graph.Node)

	for i := 1; i <= len(l.Yomi)+1; i++ {
		for _, node := range l.NodesAt(i) {
			preds := l.Predecessors(node)
			if len(preds) == 0 {
				return nil, nil, fmt.Errorf("resolver: %w: %s", graph.ErrIncompleteLattice, node)
			}

			best := float32(math.Inf(-1))
			var bestPrev *graph.Node
			for _, p := range preds {
				total := score[p] + r.edges.EdgeCost(p, node) + node.Cost
				if total > best {
					best = total
					bestPrev = p
				}
			}
			score[node] = best
			prev[node] = bestPrev
		}
	}
	return score, prev, nil
}

// backtrack walks prev from EOS to BOS, returning the chosen non-EOS
// nodes in left-to-right order.
func backtrack(l *graph.Lattice, prev map[*graph.Node]*graph.Node) ([]*graph.Node, error) {
	bos := l.BOS()
	node := l.EOS()
	var chosen []*graph.Node
	for node != bos {
		if node.WordKey != graph.EOSWordKey {
			chosen = append(chosen, node)
		}
		p, ok := prev[node]
		if !ok {
			return nil, fmt.Errorf("resolver: %w: %s", graph.ErrIncompleteLattice, node)
		}
		node = p
	}
	for i, j := 0, len(chosen)-1; i < j; i, j = i+1, j-1 {
		chosen[i], chosen[j] = chosen[j], chosen[i]
	}
	return chosen, nil
}

// Viterbi returns the highest-scoring surface string for the lattice.
func (r *Resolver) Viterbi(l *graph.Lattice) (string, error) {
	_, prev, err := r.run(l)
	if err != nil {
		return "", err
	}
	chosen, err := backtrack(l, prev)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range chosen {
		b.WriteString(n.Surface)
	}
	return b.String(), nil
}

// Candidate is one scored alternative surface form at a clause
// position.
type Candidate struct {
	Node  *graph.Node
	Score float32
}

// Clause is every candidate surface form for one position of the
// winning path, sorted descending by its score against the chosen
// predecessor. The node Viterbi actually chose there is among the
// candidates but is not necessarily Candidates[0]: that score leaves
// out the edges that follow each candidate.
type Clause struct {
	Candidates []Candidate
}

// ViterbiNBest runs the same forward pass as Viterbi, then for each
// chosen clause position re-scores every sibling node sharing that
// bucket against the chosen predecessor.
func (r *Resolver) ViterbiNBest(l *graph.Lattice) ([]Clause, error) {
	score, prev, err := r.run(l)
	if err != nil {
		return nil, err
	}
	chosen, err := backtrack(l, prev)
	if err != nil {
		return nil, err
	}

	clauses := make([]Clause, 0, len(chosen))
	for _, cn := range chosen {
		pChosen := prev[cn]
		var pScore float32
		if pChosen != l.BOS() {
			pScore = score[pChosen]
		}

		alts := l.NodesAt(cn.EndPos + 1)
		cands := make([]Candidate, 0, len(alts))
		for _, alt := range alts {
			s := pScore + r.edges.EdgeCost(pChosen, alt) + alt.Cost
			cands = append(cands, Candidate{Node: alt, Score: s})
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
		clauses = append(clauses, Clause{Candidates: cands})
	}
	return clauses, nil
}
