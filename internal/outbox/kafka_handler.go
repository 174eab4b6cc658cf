package outbox

import (
	"context"
	"fmt"

	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/pkg/kafka"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// KafkaHandler publishes outbox messages to a Kafka topic
type KafkaHandler struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewKafkaHandler creates a new KafkaHandler
func NewKafkaHandler(producer *kafka.Producer, topic string, logger logger.Logger) *KafkaHandler {
	return &KafkaHandler{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// HandleMessage publishes an outbox message to Kafka. The aggregate ID
// (order ID) is the message key, so all events for one order land on the
// same partition in order.
func (h *KafkaHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	err := h.producer.SendMessage(ctx, h.topic, message.AggregateID, message.Payload)

	if err != nil {
		h.logger.Error("Failed to publish message to Kafka",
			"error", err,
			"messageID", message.ID,
			"aggregateID", message.AggregateID)
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}

	return nil
}
