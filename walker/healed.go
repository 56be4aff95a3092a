package walker

import (
	"context"
	"sync"

	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/internal/plumbing"
)

// HealedIndex answers, for any commit, whether it is subsumed by a fixed
// commit independent of any particular introduced walk: a commit is healed
// if it is itself in the fixed set, or if any of its parents — anywhere in
// the graph, not merely on a path from some introduced commit — is healed.
// Walk consults this only at merge commits (spec.md §4.2 "Merge rule"): a
// fix landing on one side of a merge heals the merge even when that side
// was never itself part of the vulnerable range.
//
// One HealedIndex is built per analyzer.GetAffected call (scoped to one
// fixed set, shared across every concurrent per-introduced Walk), mirroring
// the at-most-once-compute cache the teacher keeps for patch-id lookups.
type HealedIndex struct {
	g     graph.Graph
	fixed graph.HashSet

	mu     sync.Mutex
	healed map[plumbing.Hash]bool
}

// NewHealedIndex builds an index over g for the given fixed set.
func NewHealedIndex(g graph.Graph, fixed graph.HashSet) *HealedIndex {
	return &HealedIndex{
		g:      g,
		fixed:  fixed,
		healed: make(map[plumbing.Hash]bool),
	}
}

// Healed reports whether c is healed, computing and caching the result
// (and the result for every ancestor visited along the way) on first use.
func (h *HealedIndex) Healed(ctx context.Context, c plumbing.Hash) (bool, error) {
	if v, ok := h.get(c); ok {
		return v, nil
	}
	if _, ok := h.fixed[c]; ok {
		h.set(c, true)
		return true, nil
	}
	parents, err := h.g.Parents(ctx, c)
	if err != nil {
		return false, plumbing.NewGraphAccessError(c, err)
	}
	result := false
	for _, p := range parents {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}
		ph, err := h.Healed(ctx, p)
		if err != nil {
			return false, err
		}
		if ph {
			result = true
		}
	}
	h.set(c, result)
	return result, nil
}

func (h *HealedIndex) get(c plumbing.Hash) (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.healed[c]
	return v, ok
}

func (h *HealedIndex) set(c plumbing.Hash, v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healed[c] = v
}
