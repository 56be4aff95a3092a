// Package analyzer implements get_affected (spec.md §4.4): the public
// entry point that combines per-introduction RangeWalker runs, optionally
// augmented by cherry-pick detection, into the final affected-commit
// result.
package analyzer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/google/osv-impact/cherrypick"
	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/walker"
)

// Config controls optional analyzer behavior.
type Config struct {
	// DetectCherryPicks enables cherrypick.Detector to expand the fixed
	// set with cross-branch patch-id matches before walking (spec.md
	// §4.3, §4.4 step 2).
	DetectCherryPicks bool
}

// Result is the immutable outcome of one GetAffected call (spec.md §4.4).
// Version tags are an enrichment the surrounding system adds; out of
// scope here (spec.md §2).
type Result struct {
	Commits graph.HashSet
}

// GetAffected computes the set of commits affected by a vulnerability
// described by events, over g, following the procedure in spec.md §4.4.
//
// GetAffected is pure and stateless per call (spec.md §5): it holds no
// cross-call state, and a single call may parallelize its per-introduced
// walks — their result sets are unioned commutatively, so the accumulator
// is identical regardless of scheduling (determinism requirement, spec.md
// §5). Cancellation via ctx aborts the whole call with no partial result
// (spec.md §5, §7 Cancelled).
func GetAffected(ctx context.Context, g graph.Graph, events graph.EventSet, cfg Config) (Result, error) {
	filtered, _ := events.Filter(ctx, g)

	fixed := filtered.Fixed
	if cfg.DetectCherryPicks && len(filtered.Introduced) > 0 {
		detector, err := cherrypick.NewDetector(g)
		if err != nil {
			return Result{}, err
		}
		expanded, err := detector.ExpandFixed(ctx, filtered.Introduced, filtered.Fixed)
		if err != nil {
			return Result{}, err
		}
		fixed = expanded
	}

	if len(filtered.Introduced) == 0 {
		return Result{Commits: graph.HashSet{}}, nil
	}

	healed := walker.NewHealedIndex(g, fixed)

	var (
		mu  sync.Mutex
		acc = make(graph.HashSet)
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i := range filtered.Introduced {
		introduced := i
		group.Go(func() error {
			affected, err := walker.Walk(gctx, g, introduced, graph.EventSet{
				Fixed:        fixed,
				Limit:        filtered.Limit,
				LastAffected: filtered.LastAffected,
			}, healed)
			if err != nil {
				return err
			}
			mu.Lock()
			for c := range affected {
				acc[c] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	return Result{Commits: acc}, nil
}
