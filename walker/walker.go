// Package walker implements the RangeWalker component of spec.md §4.2: for
// one introduction commit, it computes every descendant that is still
// vulnerable given the (possibly cherry-pick-expanded) fixed, limit and
// last_affected sets.
package walker

import (
	"context"

	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/internal/plumbing"
)

// Walk computes the affected descendants of introduced (spec.md §4.2). It
// is a pure function of its arguments: no state survives the call, and
// concurrent calls sharing the same healed index and graph are safe
// (spec.md §5).
//
// healed resolves the merge-heal rule (spec.md §4.2 "Merge rule"): a merge
// commit (two or more parents) that carries no fixed, limit or
// last_affected tag is excluded, and its descendants are not reached via
// it, when healed reports true for it — regardless of whether
// the healing parent is itself reachable from introduced. A plain
// (single-parent) commit is never subject to this rule; only its own
// fixed/limit/last_affected tag governs it, per the table in spec.md §4.2.
func Walk(ctx context.Context, g graph.Graph, introduced plumbing.Hash, events graph.EventSet, healed *HealedIndex) (graph.HashSet, error) {
	reachable, order, err := reachableTopoOrder(ctx, g, introduced)
	if err != nil {
		return nil, err
	}

	propagates := make(map[plumbing.Hash]bool, len(reachable))
	result := make(graph.HashSet, len(reachable))

	for _, c := range order {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		open := c == introduced
		if !open {
			parents, err := g.Parents(ctx, c)
			if err != nil {
				return nil, plumbing.NewGraphAccessError(c, err)
			}
			for _, p := range parents {
				if _, inReach := reachable[p]; inReach && propagates[p] {
					open = true
					break
				}
			}
		}
		if !open {
			propagates[c] = false
			continue
		}

		switch {
		case contains(events.Fixed, c):
			propagates[c] = false
		case contains(events.Limit, c):
			propagates[c] = false
		case contains(events.LastAffected, c):
			result[c] = struct{}{}
			propagates[c] = false
		default:
			if healed != nil {
				isMerge, err := isMergeCommit(ctx, g, c)
				if err != nil {
					return nil, err
				}
				if isMerge {
					h, err := healed.Healed(ctx, c)
					if err != nil {
						return nil, err
					}
					if h {
						propagates[c] = false
						break
					}
				}
			}
			result[c] = struct{}{}
			propagates[c] = true
		}
	}

	return result, nil
}

func contains(s graph.HashSet, h plumbing.Hash) bool {
	_, ok := s[h]
	return ok
}

// isMergeCommit reports whether c has two or more parents. Only such
// commits are subject to the merge-heal rule (spec.md §4.2): a plain
// commit's fate is decided solely by its own tag and its reachability.
func isMergeCommit(ctx context.Context, g graph.Graph, c plumbing.Hash) (bool, error) {
	parents, err := g.Parents(ctx, c)
	if err != nil {
		return false, plumbing.NewGraphAccessError(c, err)
	}
	return len(parents) >= 2, nil
}

// reachableTopoOrder computes the forward-reachable set from introduced
// (its descendants, including itself) and a topological order over that
// set (parents-in-set before children), via Kahn's algorithm restricted to
// the reachable subgraph. Per spec.md §9, the graph is a DAG by
// construction; a cycle confined to the reachable subgraph cannot occur if
// the provider itself is acyclic (graph.New asserts this defensively).
func reachableTopoOrder(ctx context.Context, g graph.Graph, introduced plumbing.Hash) (graph.HashSet, []plumbing.Hash, error) {
	reachable := graph.HashSet{introduced: struct{}{}}
	queue := plumbing.NewHashQueue(introduced)
	for {
		c, ok := queue.Pop()
		if !ok {
			break
		}
		children, err := g.Children(ctx, c)
		if err != nil {
			return nil, nil, plumbing.NewGraphAccessError(c, err)
		}
		for _, ch := range children {
			if _, ok := reachable[ch]; ok {
				continue
			}
			reachable[ch] = struct{}{}
			queue.Push(ch)
		}
	}

	inDegree := make(map[plumbing.Hash]int, len(reachable))
	for c := range reachable {
		if c == introduced {
			inDegree[c] = 0
			continue
		}
		parents, err := g.Parents(ctx, c)
		if err != nil {
			return nil, nil, plumbing.NewGraphAccessError(c, err)
		}
		n := 0
		for _, p := range parents {
			if _, ok := reachable[p]; ok {
				n++
			}
		}
		inDegree[c] = n
	}

	var order []plumbing.Hash
	ready := plumbing.NewHashQueue(introduced)
	processed := make(map[plumbing.Hash]bool, len(reachable))
	for {
		c, ok := ready.Pop()
		if !ok {
			break
		}
		if processed[c] {
			continue
		}
		processed[c] = true
		order = append(order, c)
		children, err := g.Children(ctx, c)
		if err != nil {
			return nil, nil, plumbing.NewGraphAccessError(c, err)
		}
		for _, ch := range children {
			if _, ok := reachable[ch]; !ok {
				continue
			}
			inDegree[ch]--
			if inDegree[ch] == 0 {
				ready.Push(ch)
			}
		}
	}

	return reachable, order, nil
}
