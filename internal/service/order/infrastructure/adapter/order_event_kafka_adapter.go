package adapter

import (
	"context"
	"encoding/json"

	"orderflow/internal/pkg/mq"
	"orderflow/internal/service/order/domain"

	"github.com/segmentio/kafka-go"
)

// OrderEventKafkaAdapter implements port.OrderEventPublisher on a Kafka
// topic. Messages are keyed by product name so outcomes for one product
// stay ordered within a partition.
type OrderEventKafkaAdapter struct {
	writer *kafka.Writer
}

func NewOrderEventKafkaAdapter(writer *kafka.Writer) *OrderEventKafkaAdapter {
	return &OrderEventKafkaAdapter{writer: writer}
}

func (a *OrderEventKafkaAdapter) PublishOrderOutcome(ctx context.Context, event *domain.OrderOutcomeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(event.Product), payload)
}
