package toolbackend

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkax "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/kafka"
)

const (
	EventTicketCreated   = "ticket.created"
	EventCustomerUpdated = "customer.updated"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CustomerID int64     `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func newEvent(typ string, customerID int64, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// EventPublisher receives change events after a successful write.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

type KafkaPublisher struct {
	producer *kafkax.Producer
}

func NewKafkaPublisher(cfg kafkax.Config) *KafkaPublisher {
	return &KafkaPublisher{producer: kafkax.NewProducer(cfg)}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	return p.producer.Send(ctx, strconv.FormatInt(e.CustomerID, 10), e)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewPublisher picks Kafka when brokers are configured.
func NewPublisher(cfg kafkax.Config) EventPublisher {
	if cfg.Enabled() {
		return NewKafkaPublisher(cfg)
	}
	return NoopPublisher{}
}
