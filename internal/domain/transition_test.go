package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func TestCanTransition_Table(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusPending, false},
		{OrderStatusPreparing, OrderStatusCompleted, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusCancelled, false},
		{OrderStatusReady, OrderStatusPreparing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_TerminalStatesAllowNothing(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.True(t, from.IsTerminal())
		assert.Empty(t, NextStatuses(from))
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(OrderStatus("archived"), OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatus("archived")))
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	next := NextStatuses(OrderStatusPending)
	require.Equal(t, []OrderStatus{OrderStatusPreparing, OrderStatusCancelled}, next)

	next[0] = OrderStatusCompleted
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusPreparing))
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("manager")
	assert.Error(t, err)
}

func TestParseOrderType(t *testing.T) {
	got, err := ParseOrderType("takeaway")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeTakeaway, got)

	_, err = ParseOrderType("drive_thru")
	assert.Error(t, err)
}
