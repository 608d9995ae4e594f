// Package events broadcasts order lifecycle changes to kafka so downstream
// consumers (notifications, analytics) see them without polling the
// database. Publishing is fire-and-forget; a broker outage never fails the
// request that triggered the event.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"dukani-be/internal/logger"
	"dukani-be/internal/order"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type Envelope struct {
	Event       string    `json:"event"`
	OccurredAt  time.Time `json:"occurredAt"`
	OrderID     uint      `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	FromStatus  string    `json:"fromStatus,omitempty"`
	Total       int64     `json:"total"`
	Currency    string    `json:"currency"`
}

// writer is the slice of kafka.Writer the publisher uses, kept as an
// interface so tests can capture messages.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	w writer
}

// NewPublisher connects a kafka writer. An empty broker list disables
// publishing entirely; every method becomes a no-op.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return &Publisher{}
	}

	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) {
	p.publish(ctx, Envelope{
		Event:       EventOrderCreated,
		OccurredAt:  time.Now().UTC(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       int64(o.Total),
		Currency:    "UGX",
	})
}

func (p *Publisher) StatusChanged(ctx context.Context, o *order.Order, from order.Status) {
	p.publish(ctx, Envelope{
		Event:       EventOrderStatusChanged,
		OccurredAt:  time.Now().UTC(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		FromStatus:  string(from),
		Total:       int64(o.Total),
		Currency:    "UGX",
	})
}

func (p *Publisher) publish(ctx context.Context, e Envelope) {
	if p.w == nil {
		return
	}

	log := logger.FromCtx(ctx).With(
		zap.String("event", e.Event),
		zap.Uint("order_id", e.OrderID),
	)

	value, err := json.Marshal(e)
	if err != nil {
		log.Error("failed to marshal event", zap.Error(err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.OrderID), 10)),
		Value: value,
	})
	if err != nil {
		log.Warn("failed to publish event", zap.Error(err))
		return
	}

	log.Debug("event published")
}

func (p *Publisher) Close() error {
	if p.w == nil {
		return nil
	}
	return p.w.Close()
}
