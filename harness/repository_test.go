package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/osv-impact/internal/plumbing"
)

func TestRepositoryBuildsAWalkableGraph(t *testing.T) {
	repo := NewRepository("harness_basic")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, Introduced)
	c := repo.AddCommit("C", []plumbing.Hash{b}, None)
	repo.AddCommit("D", []plumbing.Hash{c}, Fixed)

	g, err := repo.Build()
	require.NoError(t, err)

	ctx := context.Background()
	children, err := g.Children(ctx, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []plumbing.Hash{c}, children)

	events, err := repo.GetRanges()
	require.NoError(t, err)
	assert.Contains(t, events.Introduced, b)
	assert.Len(t, events.Fixed, 1)
}

func TestGetCommitIDsAndMessageRoundtrip(t *testing.T) {
	repo := NewRepository("harness_roundtrip")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, None)
	repo.AddCommit("C", []plumbing.Hash{b}, None)

	ids := repo.GetCommitIDs("B", "C")
	assert.Len(t, ids, 2)

	messages := repo.GetMessageByCommitIDs(ids)
	assert.ElementsMatch(t, []string{"B", "C"}, messages)
}

func TestBranchAndCheckout(t *testing.T) {
	repo := NewRepository("harness_branch")
	b := repo.AddCommit("B", []plumbing.Hash{repo.Head()}, None)
	repo.Branch("feature")
	e := repo.AddCommit("E", []plumbing.Hash{b}, None)
	assert.Equal(t, e, repo.Head())

	repo.Checkout("main")
	assert.Equal(t, b, repo.Head())
}
