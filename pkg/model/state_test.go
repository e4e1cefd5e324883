package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    ProcessState
		terminal bool
	}{
		{ProcessStateReady, false},
		{ProcessStateRunning, false},
		{ProcessStateBlocked, false},
		{ProcessStateFinished, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.state.IsTerminal(), "ProcessState(%q).IsTerminal()", tt.state)
	}
}

func TestProcessState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from  ProcessState
		to    ProcessState
		valid bool
	}{
		// Valid transitions
		{ProcessStateReady, ProcessStateRunning, true},
		{ProcessStateReady, ProcessStateBlocked, true},
		{ProcessStateRunning, ProcessStateBlocked, true},
		{ProcessStateRunning, ProcessStateFinished, true},
		{ProcessStateRunning, ProcessStateReady, true},
		{ProcessStateBlocked, ProcessStateReady, true},

		// Invalid transitions
		{ProcessStateReady, ProcessStateFinished, false},
		{ProcessStateReady, ProcessStateReady, false},
		{ProcessStateRunning, ProcessStateRunning, false},
		{ProcessStateBlocked, ProcessStateRunning, false},
		{ProcessStateBlocked, ProcessStateFinished, false},
		{ProcessStateFinished, ProcessStateReady, false},
		{ProcessStateFinished, ProcessStateRunning, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.from.CanTransitionTo(tt.to), "ProcessState(%q).CanTransitionTo(%q)", tt.from, tt.to)
	}
}

func TestProcessState_IsValid(t *testing.T) {
	assert.True(t, ProcessStateBlocked.IsValid())
	assert.False(t, ProcessState("SLEEPING").IsValid())
	assert.False(t, ProcessState("").IsValid())
}

func TestBurstPolicy_IsValid(t *testing.T) {
	assert.True(t, BurstPolicyYield.IsValid())
	assert.True(t, BurstPolicyDrain.IsValid())
	assert.False(t, BurstPolicy("greedy").IsValid())
}
