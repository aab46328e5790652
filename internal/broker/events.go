package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/blinderbots/hottecouture-sub000/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event.EventType, event)
}

// PublishTaskStageChanged publishes TaskStageChanged event
func (ep *EventPublisher) PublishTaskStageChanged(ctx context.Context, event *models.TaskStageChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event.EventType, event)
}

// PublishOrderStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event.EventType, event)
}

// PublishPaymentRecorded publishes PaymentRecorded event
func (ep *EventPublisher) PublishPaymentRecorded(ctx context.Context, event *models.PaymentRecordedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event.EventType, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onTaskStageChanged   func(context.Context, *models.TaskStageChangedEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnTaskStageChanged registers a handler for TaskStageChanged events
func (eh *EventHandler) OnTaskStageChanged(handler func(context.Context, *models.TaskStageChangedEvent) error) {
	eh.onTaskStageChanged = handler
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// MessageEventType reads the event type from the message header, falling back
// to the payload for messages written before headers were added.
func MessageEventType(msg kafka.Message) (string, error) {
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			return string(h.Value), nil
		}
	}
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return "", fmt.Errorf("failed to unmarshal base event: %w", err)
	}
	return baseEvent.EventType, nil
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	eventType, err := MessageEventType(msg)
	if err != nil {
		return err
	}

	log.Printf("Handling event: type=%s, key=%s", eventType, msg.Key)

	switch eventType {
	case models.EventTypeTaskStageChanged:
		if eh.onTaskStageChanged != nil {
			var event models.TaskStageChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal TaskStageChanged event: %w", err)
			}
			return eh.onTaskStageChanged(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", eventType)
	}

	return nil
}
