// Package cherrypick implements the optional CherryPickDetector of
// spec.md §4.3: it identifies commits on branches other than a known fix's
// own branch whose patch-id equals that fix, and treats them as additional
// implicit fixed events.
package cherrypick

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/internal/plumbing"
	"github.com/google/osv-impact/patchid"
)

// Detector caches patch-id lookups for the lifetime of one instance and
// dies with it (spec.md §9: "no process-wide mutable state... lives on the
// CherryPickDetector instance"). Patch-id computation is expensive (spec.md
// §4.3), so lookups are cached in a ristretto hit-rate-aware cache with
// singleflight ensuring at-most-once computation per key under concurrent
// callers (spec.md §5).
type Detector struct {
	g     graph.Graph
	cache *ristretto.Cache[plumbing.Hash, patchid.ID]
	group singleflight.Group
}

// NewDetector builds a Detector over g.
func NewDetector(g graph.Graph) (*Detector, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[plumbing.Hash, patchid.ID]{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Detector{g: g, cache: cache}, nil
}

func (d *Detector) patchID(ctx context.Context, c plumbing.Hash) (patchid.ID, error) {
	if id, ok := d.cache.Get(c); ok {
		return id, nil
	}
	v, err, _ := d.group.Do(c.String(), func() (any, error) {
		id, err := d.g.PatchID(ctx, c)
		if err != nil {
			return patchid.ID{}, plumbing.NewGraphAccessError(c, err)
		}
		d.cache.Set(c, id, 1)
		return id, nil
	})
	if err != nil {
		return patchid.ID{}, err
	}
	return v.(patchid.ID), nil
}

// ExpandFixed returns fixed augmented with every commit, reachable as a
// descendant of some introduced commit, whose patch-id matches a fixed
// commit's patch-id and which is not on that fixed commit's own branch
// (spec.md §9: only cross-branch matches count, to avoid self-healing
// within a branch). A match against a limit or last_affected commit has no
// effect (spec.md §4.3: "only fixed is extended").
func (d *Detector) ExpandFixed(ctx context.Context, introduced, fixed graph.HashSet) (graph.HashSet, error) {
	expanded := fixed.Clone()
	if len(fixed) == 0 || len(introduced) == 0 {
		return expanded, nil
	}

	fixedPatchIDs := make(map[patchid.ID]plumbing.Hash, len(fixed))
	for f := range fixed {
		id, err := d.patchID(ctx, f)
		if err != nil {
			return nil, err
		}
		if !id.IsZero() {
			fixedPatchIDs[id] = f
		}
	}
	if len(fixedPatchIDs) == 0 {
		return expanded, nil
	}

	candidates, err := descendantsOfAny(ctx, d.g, introduced)
	if err != nil {
		return nil, err
	}

	for c := range candidates {
		if _, already := fixed[c]; already {
			continue
		}
		id, err := d.patchID(ctx, c)
		if err != nil {
			return nil, err
		}
		if id.IsZero() {
			continue
		}
		origin, matched := fixedPatchIDs[id]
		if !matched {
			continue
		}
		sameBranch, err := relatedByAncestry(ctx, d.g, origin, c)
		if err != nil {
			return nil, err
		}
		if !sameBranch {
			expanded[c] = struct{}{}
		}
	}
	return expanded, nil
}

// descendantsOfAny returns the union of forward-reachable commits (each
// including itself) from every commit in roots — the bound spec.md §4.3
// places on the cherry-pick scan ("others cannot affect the result").
func descendantsOfAny(ctx context.Context, g graph.Graph, roots graph.HashSet) (graph.HashSet, error) {
	seen := make(graph.HashSet, len(roots))
	queue := plumbing.NewHashQueue()
	for r := range roots {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			queue.Push(r)
		}
	}
	for {
		c, ok := queue.Pop()
		if !ok {
			break
		}
		children, err := g.Children(ctx, c)
		if err != nil {
			return nil, plumbing.NewGraphAccessError(c, err)
		}
		for _, ch := range children {
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			queue.Push(ch)
		}
	}
	return seen, nil
}

// relatedByAncestry reports whether b is an ancestor or a descendant of a —
// i.e. whether they sit on the same line of history rather than on
// divergent branches.
func relatedByAncestry(ctx context.Context, g graph.Graph, a, b plumbing.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	descendants, err := descendantsOfAny(ctx, g, graph.NewHashSet(a))
	if err != nil {
		return false, err
	}
	if _, ok := descendants[b]; ok {
		return true, nil
	}
	ancestors, err := descendantsOfAny(ctx, g, graph.NewHashSet(b))
	if err != nil {
		return false, err
	}
	_, ok := ancestors[a]
	return ok, nil
}
