package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
	assert.False(t, OrderStatus("SHIPPPED").CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatus("").CanTransitionTo(OrderStatusConfirmed))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatus("DONE")))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{
		Quantity: 3,
		Price:    decimal.RequireFromString("19.99"),
	}

	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("59.97")))
}

func TestNewOrderStatusChangedEvent(t *testing.T) {
	order := &Order{
		ID:            "ord-abc12345",
		CustomerEmail: "jane@example.com",
		Status:        OrderStatusConfirmed,
	}

	msg, err := NewOrderStatusChangedEvent(order, OrderStatusPending)
	require.NoError(t, err)

	assert.Equal(t, "order", msg.AggregateType)
	assert.Equal(t, "ord-abc12345", msg.AggregateID)
	assert.Equal(t, EventOrderStatusChanged, msg.EventType)
	assert.Equal(t, OutboxStatusPending, msg.Status)
	assert.Contains(t, string(msg.Payload), `"old_status":"PENDING"`)
	assert.Contains(t, string(msg.Payload), `"new_status":"CONFIRMED"`)
}
