package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing checkout events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishCheckoutInitiated publishes CheckoutInitiated event
func (ep *EventPublisher) PublishCheckoutInitiated(ctx context.Context, event *models.CheckoutInitiatedEvent) error {
	key := fmt.Sprintf("checkout-%s", event.CheckoutID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCheckoutCompleted publishes CheckoutCompleted event
func (ep *EventPublisher) PublishCheckoutCompleted(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	key := fmt.Sprintf("checkout-%s", event.CheckoutID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCheckoutFailed publishes CheckoutFailed event
func (ep *EventPublisher) PublishCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error {
	key := fmt.Sprintf("checkout-%s", event.CheckoutID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming checkout events to registered callbacks.
type EventHandler struct {
	logger              *zap.Logger
	onCheckoutInitiated func(context.Context, *models.CheckoutInitiatedEvent) error
	onCheckoutCompleted func(context.Context, *models.CheckoutCompletedEvent) error
	onCheckoutFailed    func(context.Context, *models.CheckoutFailedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnCheckoutInitiated registers a handler for CheckoutInitiated events
func (eh *EventHandler) OnCheckoutInitiated(handler func(context.Context, *models.CheckoutInitiatedEvent) error) {
	eh.onCheckoutInitiated = handler
}

// OnCheckoutCompleted registers a handler for CheckoutCompleted events
func (eh *EventHandler) OnCheckoutCompleted(handler func(context.Context, *models.CheckoutCompletedEvent) error) {
	eh.onCheckoutCompleted = handler
}

// OnCheckoutFailed registers a handler for CheckoutFailed events
func (eh *EventHandler) OnCheckoutFailed(handler func(context.Context, *models.CheckoutFailedEvent) error) {
	eh.onCheckoutFailed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeCheckoutInitiated:
		if eh.onCheckoutInitiated != nil {
			var event models.CheckoutInitiatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutInitiated event: %w", err)
			}
			return eh.onCheckoutInitiated(ctx, &event)
		}

	case models.EventTypeCheckoutCompleted:
		if eh.onCheckoutCompleted != nil {
			var event models.CheckoutCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutCompleted event: %w", err)
			}
			return eh.onCheckoutCompleted(ctx, &event)
		}

	case models.EventTypeCheckoutFailed:
		if eh.onCheckoutFailed != nil {
			var event models.CheckoutFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutFailed event: %w", err)
			}
			return eh.onCheckoutFailed(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
