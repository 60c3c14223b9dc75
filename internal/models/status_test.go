package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForwardProgression(t *testing.T) {
	assert.True(t, CanTransition(StatusNew, StatusReviewed))
	assert.True(t, CanTransition(StatusReviewed, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusDispatched))
	assert.True(t, CanTransition(StatusDispatched, StatusCompleted))
}

func TestCanTransitionRejectsJumps(t *testing.T) {
	assert.False(t, CanTransition(StatusNew, StatusDispatched))
	assert.False(t, CanTransition(StatusNew, StatusConfirmed))
	assert.False(t, CanTransition(StatusNew, StatusCompleted))
	assert.False(t, CanTransition(StatusReviewed, StatusDispatched))
	assert.False(t, CanTransition(StatusConfirmed, StatusCompleted))

	// no going backwards
	assert.False(t, CanTransition(StatusConfirmed, StatusReviewed))
	assert.False(t, CanTransition(StatusDispatched, StatusNew))
}

func TestCancelledReachableFromNonTerminal(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusReviewed, StatusConfirmed, StatusDispatched} {
		assert.True(t, CanTransition(from, StatusCancelled), "Cancelled should be reachable from %s", from)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusDispatched.IsTerminal())

	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusNew))
}

func TestSameStatusIsAllowed(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusReviewed, StatusConfirmed, StatusDispatched, StatusCompleted, StatusCancelled} {
		assert.True(t, CanTransition(s, s))
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("Shipped")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}
