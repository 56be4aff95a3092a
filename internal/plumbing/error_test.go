package plumbing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoSuchObjectPredicate(t *testing.T) {
	err := NoSuchObject(NewHash("ab"))
	assert.True(t, IsNoSuchObject(err))
	assert.False(t, IsGraphAccessError(err))
	assert.False(t, IsInvariantViolation(err))
}

func TestGraphAccessErrorWrapsUnderlying(t *testing.T) {
	inner := errors.New("boom")
	err := NewGraphAccessError(NewHash("ab"), inner)
	assert.True(t, IsGraphAccessError(err))
	assert.ErrorIs(t, err, inner)
}

func TestInvariantViolationPredicate(t *testing.T) {
	err := NewInvariantViolation("commit %s tagged twice", NewHash("cd"))
	assert.True(t, IsInvariantViolation(err))
	assert.False(t, IsNoSuchObject(err))
}
