package cherrypick

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/osv-impact/graph"
	"github.com/google/osv-impact/harness"
	"github.com/google/osv-impact/internal/plumbing"
)

// ExpandFixed adds a same-patch-id commit on a divergent branch as an
// implicit fix (spec.md §4.3), but leaves a same-branch (ancestor/
// descendant) match alone (spec.md §9 open question: only cross-branch
// matches count, to avoid self-healing within a branch).
func TestExpandFixedAddsCrossBranchMatchOnly(t *testing.T) {
	repo := harness.NewRepository("expand_cross_branch")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, harness.Introduced)
	c := repo.AddCommit("C", []plumbing.Hash{b}, harness.None)
	repo.Branch("feature")
	cherry := repo.AddCommit("Fix", []plumbing.Hash{c}, harness.None)
	repo.Checkout("main")
	d := repo.AddCommit("D", []plumbing.Hash{c}, harness.None)
	fix := repo.AddCommit("Fix", []plumbing.Hash{d}, harness.Fixed)

	g, err := repo.Build()
	require.NoError(t, err)

	detector, err := NewDetector(g)
	require.NoError(t, err)

	expanded, err := detector.ExpandFixed(context.Background(), graph.NewHashSet(b), graph.NewHashSet(fix))
	require.NoError(t, err)

	_, matched := expanded[cherry]
	assert.True(t, matched, "cherry-picked commit on a divergent branch should be added as an implicit fix")
	_, originalStillThere := expanded[fix]
	assert.True(t, originalStillThere)
	assert.Len(t, expanded, 2)
}

// A commit whose patch-id matches a fixed commit but which is itself an
// ancestor or descendant of it (same line of history) is not added — it is
// not a cherry-pick, just the fix's own lineage.
func TestExpandFixedIgnoresSameBranchMatch(t *testing.T) {
	repo := harness.NewRepository("expand_same_branch")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, harness.Introduced)
	// An ancestor of the eventual fix that happens to carry the same label
	// (and hence the same patch-id) — not a cherry-pick, since it sits on
	// the fix's own line of history rather than a divergent branch.
	mid := repo.AddCommit("Fix", []plumbing.Hash{b}, harness.None)
	fix := repo.AddCommit("Fix", []plumbing.Hash{mid}, harness.Fixed)

	g, err := repo.Build()
	require.NoError(t, err)

	detector, err := NewDetector(g)
	require.NoError(t, err)

	expanded, err := detector.ExpandFixed(context.Background(), graph.NewHashSet(b), graph.NewHashSet(fix))
	require.NoError(t, err)
	assert.Len(t, expanded, 1)
	_, ok := expanded[fix]
	assert.True(t, ok)
	_, midAdded := expanded[mid]
	assert.False(t, midAdded)
}

// No fixed commits, or no introduced commits: ExpandFixed is a no-op.
func TestExpandFixedNoopWhenEitherSetEmpty(t *testing.T) {
	repo := harness.NewRepository("expand_noop")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, harness.Introduced)

	g, err := repo.Build()
	require.NoError(t, err)
	detector, err := NewDetector(g)
	require.NoError(t, err)

	expanded, err := detector.ExpandFixed(context.Background(), graph.NewHashSet(b), graph.HashSet{})
	require.NoError(t, err)
	assert.Empty(t, expanded)

	expanded, err = detector.ExpandFixed(context.Background(), graph.HashSet{}, graph.NewHashSet(b))
	require.NoError(t, err)
	assert.Len(t, expanded, 1)
}
