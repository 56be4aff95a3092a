package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/osv-impact/internal/plumbing"
)

func h(s string) plumbing.Hash {
	return plumbing.HashContent([]byte(s))
}

func TestNewBuildsChildIndex(t *testing.T) {
	a, b, c := h("a"), h("b"), h("c")
	g, err := New(map[plumbing.Hash][]plumbing.Hash{
		b: {a},
		c: {b},
	}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	children, err := g.Children(ctx, a)
	require.NoError(t, err)
	assert.ElementsMatch(t, []plumbing.Hash{b}, children)

	tips, err := g.Tips(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []plumbing.Hash{c}, tips)
}

func TestNewRejectsCycle(t *testing.T) {
	a, b := h("a"), h("b")
	_, err := New(map[plumbing.Hash][]plumbing.Hash{
		a: {b},
		b: {a},
	}, nil)
	require.Error(t, err)
	assert.True(t, plumbing.IsInvariantViolation(err))
}

func TestExistsAndNoSuchObject(t *testing.T) {
	a, b := h("a"), h("b")
	g, err := New(map[plumbing.Hash][]plumbing.Hash{b: {a}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, g.Exists(ctx, a))
	assert.False(t, g.Exists(ctx, h("missing")))

	_, err = g.Parents(ctx, h("missing"))
	require.Error(t, err)
	assert.True(t, plumbing.IsNoSuchObject(err))
}

func TestEventSetRejectsOverlap(t *testing.T) {
	a := h("a")
	_, err := NewEventSet(NewHashSet(a), NewHashSet(a), nil, nil)
	require.Error(t, err)
	assert.True(t, plumbing.IsInvariantViolation(err))
}

func TestEventSetFilterDropsUnknown(t *testing.T) {
	a, b := h("a"), h("b")
	g, err := New(map[plumbing.Hash][]plumbing.Hash{b: {a}}, nil)
	require.NoError(t, err)

	missing := h("missing")
	events, err := NewEventSet(NewHashSet(a, missing), nil, nil, nil)
	require.NoError(t, err)

	filtered, dropped := events.Filter(context.Background(), g)
	assert.Equal(t, []plumbing.Hash{missing}, dropped)
	_, stillThere := filtered.Introduced[missing]
	assert.False(t, stillThere)
	_, kept := filtered.Introduced[a]
	assert.True(t, kept)
}
