package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	valid := []Status{
		StatusPending, StatusProcessing, StatusReadyToShip, StatusShipping,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusReturned,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	assert.False(t, Status("unknown").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipping.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestStatusCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:     {StatusProcessing, StatusShipping, StatusCancelled},
		StatusProcessing:  {StatusReadyToShip, StatusShipping, StatusCancelled},
		StatusReadyToShip: {StatusShipping, StatusCancelled},
		StatusShipping:    {StatusDelivered, StatusReturned, StatusCancelled},
		StatusDelivered:   {StatusCompleted, StatusReturned, StatusCancelled},
		StatusCompleted:   {},
		StatusCancelled:   {},
		StatusReturned:    {},
	}

	all := []Status{
		StatusPending, StatusProcessing, StatusReadyToShip, StatusShipping,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusReturned,
	}

	// Every (from, to) pair must match the allow-list exactly
	for from, targets := range allowed {
		permitted := make(map[Status]bool, len(targets))
		for _, to := range targets {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	all := []Status{
		StatusPending, StatusProcessing, StatusReadyToShip, StatusShipping,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusReturned,
	}
	for _, from := range []Status{StatusCompleted, StatusCancelled, StatusReturned} {
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "terminal %s must not reach %s", from, to)
		}
	}
}
