package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"marketplace-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events. Publishing is
// fire-and-forget from the caller's perspective: a failed publish is logged
// and never rolls back the write that triggered it.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishRequestCreated publishes a RequestCreated event
func (ep *EventPublisher) PublishRequestCreated(ctx context.Context, event *models.RequestCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, event.RequestCode, event)
}

// PublishRequestStatusChanged publishes a RequestStatusChanged event
func (ep *EventPublisher) PublishRequestStatusChanged(ctx context.Context, event *models.RequestStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, event.RequestCode, event)
}

// PublishStockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks.
type EventHandler struct {
	onRequestCreated       func(context.Context, *models.RequestCreatedEvent) error
	onRequestStatusChanged func(context.Context, *models.RequestStatusChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnRequestCreated registers a handler for RequestCreated events
func (eh *EventHandler) OnRequestCreated(handler func(context.Context, *models.RequestCreatedEvent) error) {
	eh.onRequestCreated = handler
}

// OnRequestStatusChanged registers a handler for RequestStatusChanged events
func (eh *EventHandler) OnRequestStatusChanged(handler func(context.Context, *models.RequestStatusChangedEvent) error) {
	eh.onRequestStatusChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeRequestCreated:
		if eh.onRequestCreated != nil {
			var event models.RequestCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal RequestCreated event: %w", err)
			}
			return eh.onRequestCreated(ctx, &event)
		}

	case models.EventTypeRequestStatusChanged:
		if eh.onRequestStatusChanged != nil {
			var event models.RequestStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal RequestStatusChanged event: %w", err)
			}
			return eh.onRequestStatusChanged(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
