package graph

import (
	"context"
	"sync"

	"github.com/google/osv-impact/internal/plumbing"
	"github.com/google/osv-impact/patchid"
)

// MemoryGraph is the in-memory Graph reference implementation. Its parent
// and child maps are built once from a caller-supplied parent map and never
// mutated afterwards; the only later writes are PatchID's memoized results,
// taken under a mutex. This makes it safe for unlimited concurrent reads
// (spec §5: "The CommitGraph must be safe for concurrent read access").
//
// Following spec §9 ("compute children() once by scanning all reachable
// commits from the tips at construction time"), the reverse (child) index
// is built in a single pass in New, the same one-pass memoization strategy
// the teacher's BFS and topological commit walkers use.
type MemoryGraph struct {
	parents  map[plumbing.Hash][]plumbing.Hash
	children map[plumbing.Hash][]plumbing.Hash
	patches  map[plumbing.Hash]patchid.Input

	mu        sync.Mutex
	patchIDs  map[plumbing.Hash]patchid.ID
}

// New builds a MemoryGraph from a commit -> parents adjacency map. patches
// is optional; a commit absent from it yields patchid.ID{} (the zero
// value) from PatchID, which never matches a real patch — fine, since
// cherry-pick detection is opt-in and only meaningful when patches are
// supplied.
//
// New defensively verifies the input is acyclic (spec §9: "a well-formed
// implementation needs no cycle detection but should assert acyclicity
// defensively"); a cycle reports plumbing.NewInvariantViolation.
func New(parents map[plumbing.Hash][]plumbing.Hash, patches map[plumbing.Hash]patchid.Input) (*MemoryGraph, error) {
	g := &MemoryGraph{
		parents:  parents,
		children: make(map[plumbing.Hash][]plumbing.Hash, len(parents)),
		patches:  patches,
		patchIDs: make(map[plumbing.Hash]patchid.ID),
	}
	for c, ps := range parents {
		for _, p := range ps {
			g.children[p] = append(g.children[p], c)
		}
	}
	if err := g.assertAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// assertAcyclic runs a three-color DFS over every known commit. A DAG by
// construction (spec §3) should never trip this, but a well-formed
// implementation "should assert acyclicity defensively" (spec §9).
func (g *MemoryGraph) assertAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[plumbing.Hash]int, len(g.parents))
	var visit func(c plumbing.Hash) error
	visit = func(c plumbing.Hash) error {
		switch color[c] {
		case black:
			return nil
		case gray:
			return plumbing.NewInvariantViolation("cycle detected at commit %s", c)
		}
		color[c] = gray
		for _, p := range g.parents[c] {
			if err := visit(p); err != nil {
				return err
			}
		}
		color[c] = black
		return nil
	}
	for c := range g.parents {
		if err := visit(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *MemoryGraph) Tips(ctx context.Context) ([]plumbing.Hash, error) {
	var tips []plumbing.Hash
	for c := range g.allCommits() {
		if len(g.children[c]) == 0 {
			tips = append(tips, c)
		}
	}
	return tips, nil
}

func (g *MemoryGraph) allCommits() map[plumbing.Hash]struct{} {
	all := make(map[plumbing.Hash]struct{}, len(g.parents))
	for c, ps := range g.parents {
		all[c] = struct{}{}
		for _, p := range ps {
			all[p] = struct{}{}
		}
	}
	return all
}

func (g *MemoryGraph) Parents(ctx context.Context, c plumbing.Hash) ([]plumbing.Hash, error) {
	if !g.Exists(ctx, c) {
		return nil, plumbing.NoSuchObject(c)
	}
	return g.parents[c], nil
}

func (g *MemoryGraph) Children(ctx context.Context, c plumbing.Hash) ([]plumbing.Hash, error) {
	if !g.Exists(ctx, c) {
		return nil, plumbing.NoSuchObject(c)
	}
	return g.children[c], nil
}

func (g *MemoryGraph) Exists(ctx context.Context, c plumbing.Hash) bool {
	if _, ok := g.parents[c]; ok {
		return true
	}
	_, ok := g.children[c]
	return ok
}

func (g *MemoryGraph) PatchID(ctx context.Context, c plumbing.Hash) (patchid.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.patchIDs[c]; ok {
		return id, nil
	}
	in, ok := g.patches[c]
	if !ok {
		return patchid.ID{}, nil
	}
	id := patchid.Compute(in)
	g.patchIDs[c] = id
	return id, nil
}
