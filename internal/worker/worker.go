package worker

import (
	"context"

	"storefront-service/internal/broker"
	"storefront-service/internal/service"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CheckoutResultWorker consumes checkout completion/failure events and
// applies them to the owning session: completion clears the cart, failure
// keeps it for a retry.
type CheckoutResultWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCheckoutResultWorker creates a new checkout result worker
func NewCheckoutResultWorker(consumer *broker.Consumer, sessions *session.Manager) *CheckoutResultWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnCheckoutCompleted(sessions.HandleCheckoutCompleted)
	eventHandler.OnCheckoutFailed(sessions.HandleCheckoutFailed)

	return &CheckoutResultWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *CheckoutResultWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting checkout result worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CheckoutResultWorker) Stop() error {
	w.logger.Info("Stopping checkout result worker")
	return w.consumer.Close()
}

// CheckoutProcessorWorker consumes CheckoutInitiated events and settles
// them through the mock checkout service.
type CheckoutProcessorWorker struct {
	consumer        *broker.Consumer
	eventHandler    *broker.EventHandler
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutProcessorWorker creates a new checkout processor worker
func NewCheckoutProcessorWorker(consumer *broker.Consumer, checkoutService *service.CheckoutService) *CheckoutProcessorWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnCheckoutInitiated(checkoutService.ProcessCheckout)

	return &CheckoutProcessorWorker{
		consumer:        consumer,
		eventHandler:    eventHandler,
		checkoutService: checkoutService,
		logger:          util.GetLogger(),
	}
}

// Start starts the worker
func (w *CheckoutProcessorWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting checkout processor worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CheckoutProcessorWorker) Stop() error {
	w.logger.Info("Stopping checkout processor worker")
	return w.consumer.Close()
}
