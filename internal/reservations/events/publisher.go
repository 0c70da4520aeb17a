package events

import (
	"context"
	"fmt"

	"roombook/pkg/kafka"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

const (
	source        = "reservations"
	schemaVersion = "1"
)

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher sends reservation events keyed by space id, so every change
// to one space lands on the same partition in commit order.
type KafkaPublisher struct {
	producer MessagePublisher
}

func NewKafkaPublisher(producer MessagePublisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.ReservationEvent) error {
	msg, err := kafka.NewMessage(event.OccurredAt).
		WithKey(event.SpaceID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(string(event.Type)).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}
	return p.producer.Publish(ctx, msg)
}
