package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService stands in for the external checkout collaborator: it
// consumes CheckoutInitiated events and answers with a completion or
// failure event (mocked)
type CheckoutService struct {
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	successRate    float64 // Mock success rate (0.0 - 1.0)
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(eventPublisher *broker.EventPublisher) *CheckoutService {
	return &CheckoutService{
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		successRate:    0.9, // 90% success rate for testing
	}
}

// ProcessCheckout settles one checkout handoff (mocked)
func (cs *CheckoutService) ProcessCheckout(ctx context.Context, event *models.CheckoutInitiatedEvent) error {
	ctx, span := util.StartSpan(ctx, "CheckoutService.ProcessCheckout")
	defer span.End()

	cs.logger.Info("Processing checkout",
		zap.String("checkout_id", event.CheckoutID),
		zap.String("session_id", event.SessionID),
		zap.Float64("total", event.Total),
		zap.Int("items", len(event.Items)))

	time.Sleep(time.Duration(100+rand.Intn(400)) * time.Millisecond)

	if rand.Float64() < cs.successRate {
		confirmationID := fmt.Sprintf("CNF-%s", uuid.New().String()[:8])
		cs.logger.Info("Checkout confirmed",
			zap.String("checkout_id", event.CheckoutID),
			zap.String("confirmation_id", confirmationID))

		completed := &models.CheckoutCompletedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCheckoutCompleted,
				Timestamp: time.Now(),
			},
			SessionID:      event.SessionID,
			CheckoutID:     event.CheckoutID,
			ConfirmationID: confirmationID,
		}
		return cs.eventPublisher.PublishCheckoutCompleted(ctx, completed)
	}

	cs.logger.Warn("Checkout declined", zap.String("checkout_id", event.CheckoutID))

	failed := &models.CheckoutFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutFailed,
			Timestamp: time.Now(),
		},
		SessionID:  event.SessionID,
		CheckoutID: event.CheckoutID,
		Reason:     "mock_checkout_declined",
	}
	return cs.eventPublisher.PublishCheckoutFailed(ctx, failed)
}
