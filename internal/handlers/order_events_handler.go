package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// OrderEventsHandler consumes order events from Kafka. It is the
// notification side of the pipeline: today it logs, and is the hook
// point for customer emails and downstream sync.
type OrderEventsHandler struct {
	logger logger.Logger
}

// NewOrderEventsHandler creates a new OrderEventsHandler
func NewOrderEventsHandler(logger logger.Logger) *OrderEventsHandler {
	return &OrderEventsHandler{
		logger: logger,
	}
}

// HandleMessage dispatches an incoming Kafka message by event type
func (h *OrderEventsHandler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event models.OutboxMessageEvent

	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	h.logger.Info("Handling order event",
		"eventType", event.EventType,
		"eventId", event.EventID,
		"aggregateId", event.AggregateID,
		"occurredAt", event.OccurredAt,
	)

	switch event.EventType {
	case models.EventOrderCreated:
		return h.handleOrderCreated(event)
	case models.EventOrderStatusChanged:
		return h.handleOrderStatusChanged(event)
	case models.EventPaymentStatusChanged:
		return h.handlePaymentStatusChanged(event)
	case models.EventTrackingUpdated:
		return h.handleTrackingUpdated(event)
	default:
		h.logger.Warn("unknown event type", "eventType", event.EventType)
		return nil
	}
}

func (h *OrderEventsHandler) handleOrderCreated(event models.OutboxMessageEvent) error {
	h.logger.Info("Processing order created event",
		"orderID", event.AggregateID,
		"eventID", event.EventID,
	)

	// Hook point for order confirmation emails and warehouse notification
	return nil
}

func (h *OrderEventsHandler) handleOrderStatusChanged(event models.OutboxMessageEvent) error {
	data, ok := event.Data.(map[string]interface{})

	if !ok {
		h.logger.Error("Invalid event data format", "eventID", event.EventID)
		return fmt.Errorf("invalid event data format")
	}

	oldStatus, _ := data["old_status"].(string)
	newStatus, _ := data["new_status"].(string)

	h.logger.Info("Order status changed",
		"orderID", event.AggregateID,
		"oldStatus", oldStatus,
		"newStatus", newStatus)

	// Hook point for shipment and delivery notifications
	return nil
}

func (h *OrderEventsHandler) handlePaymentStatusChanged(event models.OutboxMessageEvent) error {
	data, ok := event.Data.(map[string]interface{})

	if !ok {
		h.logger.Error("Invalid event data format", "eventID", event.EventID)
		return fmt.Errorf("invalid event data format")
	}

	newStatus, _ := data["new_payment_status"].(string)

	h.logger.Info("Processing payment status changed event",
		"orderID", event.AggregateID,
		"paymentStatus", newStatus)

	return nil
}

func (h *OrderEventsHandler) handleTrackingUpdated(event models.OutboxMessageEvent) error {
	h.logger.Info("Processing tracking updated event",
		"orderID", event.AggregateID,
		"eventID", event.EventID)

	return nil
}
