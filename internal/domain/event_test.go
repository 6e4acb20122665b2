package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyParticipantsDelta(t *testing.T) {
	t.Run("increment flips event to full at capacity", func(t *testing.T) {
		e := &Event{MaxParticipants: 2, CurrentParticipants: 1, Status: EventActive}

		applied := e.ApplyParticipantsDelta(1)

		assert.Equal(t, 1, applied)
		assert.Equal(t, 2, e.CurrentParticipants)
		assert.Equal(t, EventFull, e.Status)
	})

	t.Run("decrement un-fulls the event", func(t *testing.T) {
		e := &Event{MaxParticipants: 2, CurrentParticipants: 2, Status: EventFull}

		applied := e.ApplyParticipantsDelta(-1)

		assert.Equal(t, -1, applied)
		assert.Equal(t, 1, e.CurrentParticipants)
		assert.Equal(t, EventActive, e.Status)
	})

	t.Run("counter never exceeds max participants", func(t *testing.T) {
		e := &Event{MaxParticipants: 3, CurrentParticipants: 2, Status: EventActive}

		applied := e.ApplyParticipantsDelta(5)

		assert.Equal(t, 1, applied)
		assert.Equal(t, 3, e.CurrentParticipants)
		assert.Equal(t, EventFull, e.Status)
	})

	t.Run("counter never drops below zero", func(t *testing.T) {
		e := &Event{MaxParticipants: 3, CurrentParticipants: 1, Status: EventActive}

		applied := e.ApplyParticipantsDelta(-4)

		assert.Equal(t, -1, applied)
		assert.Equal(t, 0, e.CurrentParticipants)
		assert.Equal(t, EventActive, e.Status)
	})

	t.Run("terminal status is never overwritten", func(t *testing.T) {
		e := &Event{MaxParticipants: 2, CurrentParticipants: 2, Status: EventCancelled}

		e.ApplyParticipantsDelta(-1)

		assert.Equal(t, 1, e.CurrentParticipants)
		assert.Equal(t, EventCancelled, e.Status)
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		e := &Event{MaxParticipants: 5, CurrentParticipants: 3, Status: EventActive}

		applied := e.ApplyParticipantsDelta(0)

		assert.Equal(t, 0, applied)
		assert.Equal(t, 3, e.CurrentParticipants)
		assert.Equal(t, EventActive, e.Status)
	})
}

func TestEventIsJoinable(t *testing.T) {
	assert.True(t, (&Event{Status: EventActive, MaxParticipants: 2, CurrentParticipants: 1}).IsJoinable())
	assert.False(t, (&Event{Status: EventActive, MaxParticipants: 2, CurrentParticipants: 2}).IsJoinable())
	assert.False(t, (&Event{Status: EventFull, MaxParticipants: 2, CurrentParticipants: 2}).IsJoinable())
	assert.False(t, (&Event{Status: EventCancelled, MaxParticipants: 2, CurrentParticipants: 0}).IsJoinable())
}
