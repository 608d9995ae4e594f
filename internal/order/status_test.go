package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepStates(steps []Step) map[Status]StepState {
	out := make(map[Status]StepState, len(steps))
	for _, s := range steps {
		out[s.Status] = s.State
	}
	return out
}

func TestSteps(t *testing.T) {
	t.Run("LinearStatuses", func(t *testing.T) {
		for idx, current := range StepList {
			steps := Steps(current)
			require.Len(t, steps, 4)

			active := 0
			for i, step := range steps {
				switch {
				case i < idx:
					assert.Equal(t, StepCompleted, step.State, "status %s step %d", current, i)
				case i == idx:
					assert.Equal(t, StepActive, step.State)
					active++
				default:
					assert.Equal(t, StepFuture, step.State)
				}
			}
			assert.Equal(t, 1, active, "exactly one active step for %s", current)
		}
	})

	t.Run("Cancelled_NoActiveStep", func(t *testing.T) {
		states := stepStates(Steps(StatusCancelled))
		for status, state := range states {
			assert.NotEqual(t, StepActive, state, "status %s", status)
		}
	})

	t.Run("Refunded_NoActiveStep", func(t *testing.T) {
		for _, step := range Steps(StatusRefunded) {
			assert.Equal(t, StepFuture, step.State)
		}
	})
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	rejected := []struct{ from, to Status }{
		{StatusPending, StatusShipped},    // skipping
		{StatusPending, StatusDelivered},  // skipping
		{StatusShipped, StatusCancelled},  // too late to cancel
		{StatusDelivered, StatusShipped},  // backwards
		{StatusCancelled, StatusPending},  // reviving terminal
		{StatusDelivered, StatusPending},  // reviving terminal
		{StatusRefunded, StatusProcessing},
		{StatusPending, StatusPending}, // self-loop
	}
	for _, tc := range rejected {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNextActions(t *testing.T) {
	assert.Equal(t, []Status{StatusProcessing, StatusCancelled}, NextActions(StatusPending))
	assert.Equal(t, []Status{StatusShipped, StatusCancelled}, NextActions(StatusProcessing))
	assert.Equal(t, []Status{StatusDelivered}, NextActions(StatusShipped))
	assert.Empty(t, NextActions(StatusDelivered))
	assert.Empty(t, NextActions(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusRefunded))
	assert.False(t, ValidStatus(Status("archived")))
}
