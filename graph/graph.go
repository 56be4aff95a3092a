// Package graph defines the commit-graph provider contract the analyzer
// walks (spec §4.1) and the in-memory reference implementation used by
// tests and by the harness package.
package graph

import (
	"context"

	"github.com/google/osv-impact/internal/plumbing"
	"github.com/google/osv-impact/patchid"
)

// Graph is the abstract commit-graph provider the analyzer, walker and
// cherry-pick detector consume. Implementations may wrap a real git object
// store or, as here, an in-memory fixture.
type Graph interface {
	// Tips returns every commit with no children.
	Tips(ctx context.Context) ([]plumbing.Hash, error)
	// Parents returns the ordered parents of c. A root commit has none.
	Parents(ctx context.Context, c plumbing.Hash) ([]plumbing.Hash, error)
	// Children returns every commit whose parent list includes c.
	Children(ctx context.Context, c plumbing.Hash) ([]plumbing.Hash, error)
	// Exists reports whether c resolves in this graph.
	Exists(ctx context.Context, c plumbing.Hash) bool
	// PatchID returns the patch identity of c. Only called when cherry-pick
	// detection is enabled.
	PatchID(ctx context.Context, c plumbing.Hash) (patchid.ID, error)
}
