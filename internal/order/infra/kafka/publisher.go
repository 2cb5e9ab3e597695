package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dwikikusuma/shopcore/internal/order/domain"
	"github.com/segmentio/kafka-go"
)

type event struct {
	Type        string      `json:"type"`
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	Status      string      `json:"status"`
	Currency    string      `json:"currency"`
	TotalAmount int64       `json:"total_amount"`
	Lines       []eventLine `json:"lines"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

type eventLine struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

// Publisher emits order lifecycle events. Downstream consumers
// (notifications, warehousing) hang off these instead of the order
// service calling them directly.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, order domain.Order) error {
	lines := make([]eventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, eventLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	payload, err := json.Marshal(event{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		Currency:    order.Currency,
		TotalAmount: order.TotalAmount,
		Lines:       lines,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
