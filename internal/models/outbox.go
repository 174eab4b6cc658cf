package models

import (
	"encoding/json"
	"time"
)

// OutboxStatus represents the status of an outbox message
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusCompleted  OutboxStatus = "completed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Order event types written to the outbox
const (
	EventOrderCreated         = "order_created"
	EventOrderStatusChanged   = "order_status_changed"
	EventPaymentStatusChanged = "payment_status_changed"
	EventTrackingUpdated      = "tracking_updated"
)

// OutboxMessage is a row in the transactional outbox. It is written in
// the same transaction as the order mutation it describes and published
// to Kafka by the outbox processor.
type OutboxMessage struct {
	ID                 int64        `db:"id" json:"id"`
	AggregateType      string       `db:"aggregate_type" json:"aggregate_type"`
	AggregateID        string       `db:"aggregate_id" json:"aggregate_id"`
	EventType          string       `db:"event_type" json:"event_type"`
	Payload            []byte       `db:"payload" json:"payload"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	ProcessedAt        *time.Time   `db:"processed_at" json:"processed_at,omitempty"`
	NextAttemptAt      time.Time    `db:"next_attempt_at" json:"next_attempt_at"`
	ProcessingAttempts int          `db:"processing_attempts" json:"processing_attempts"`
	LastError          *string      `db:"last_error" json:"last_error,omitempty"`
	Status             OutboxStatus `db:"status" json:"status"`
}

// OutboxMessageEvent is the envelope serialized into the outbox payload
type OutboxMessageEvent struct {
	EventType   string      `json:"event_type"`
	EventID     string      `json:"event_id"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

func newOrderEvent(eventType, orderID string, data interface{}) (*OutboxMessage, error) {
	now := GetCurrentTime()

	payload, err := json.Marshal(OutboxMessageEvent{
		EventType:   eventType,
		EventID:     GenerateID("evt"),
		AggregateID: orderID,
		OccurredAt:  now,
		Data:        data,
	})

	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		AggregateType:      "order",
		AggregateID:        orderID,
		EventType:          eventType,
		Payload:            payload,
		CreatedAt:          now,
		NextAttemptAt:      now,
		ProcessingAttempts: 0,
		Status:             OutboxStatusPending,
	}, nil
}

// NewOrderCreatedEvent builds the outbox row for a freshly created order
func NewOrderCreatedEvent(order *Order) (*OutboxMessage, error) {
	return newOrderEvent(EventOrderCreated, order.ID, order)
}

// NewOrderStatusChangedEvent builds the outbox row for a fulfillment status change
func NewOrderStatusChangedEvent(order *Order, oldStatus OrderStatus) (*OutboxMessage, error) {
	return newOrderEvent(EventOrderStatusChanged, order.ID, map[string]interface{}{
		"order_id":       order.ID,
		"customer_email": order.CustomerEmail,
		"old_status":     oldStatus,
		"new_status":     order.Status,
	})
}

// NewPaymentStatusChangedEvent builds the outbox row for a payment status change
func NewPaymentStatusChangedEvent(order *Order, oldStatus PaymentStatus) (*OutboxMessage, error) {
	return newOrderEvent(EventPaymentStatusChanged, order.ID, map[string]interface{}{
		"order_id":           order.ID,
		"customer_email":     order.CustomerEmail,
		"old_payment_status": oldStatus,
		"new_payment_status": order.PaymentStatus,
		"payment_method":     order.PaymentMethod,
	})
}

// NewTrackingUpdatedEvent builds the outbox row for a tracking update
func NewTrackingUpdatedEvent(order *Order) (*OutboxMessage, error) {
	return newOrderEvent(EventTrackingUpdated, order.ID, map[string]interface{}{
		"order_id":                order.ID,
		"customer_email":          order.CustomerEmail,
		"tracking_number":         order.TrackingNumber,
		"estimated_delivery_date": order.EstimatedDeliveryDate,
	})
}
