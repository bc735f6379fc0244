package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

type OrderStatusChanged struct {
	OrderID   string             `json:"order_id"`
	UserID    int64              `json:"user_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
	ChangedAt time.Time          `json:"changed_at"`
}

// StatusPublisher announces order status transitions to downstream consumers
// (notifications, analytics). Delivery is best effort; the transition itself
// is already committed when this runs.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, event OrderStatusChanged) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-status",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishStatusChange(ctx context.Context, event OrderStatusChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order id keeps per-order ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.status_changed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewStatusEvent builds the event payload for a committed transition.
func NewStatusEvent(orderID uuid.UUID, userID int64, old, next domain.OrderStatus) OrderStatusChanged {
	return OrderStatusChanged{
		OrderID:   orderID.String(),
		UserID:    userID,
		OldStatus: old,
		NewStatus: next,
		ChangedAt: time.Now().UTC(),
	}
}
