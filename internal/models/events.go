package models

import "time"

// Event types exchanged with the checkout collaborator.
const (
	EventTypeCheckoutInitiated = "CHECKOUT_INITIATED"
	EventTypeCheckoutCompleted = "CHECKOUT_COMPLETED"
	EventTypeCheckoutFailed    = "CHECKOUT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutItem is one cart line as handed off to checkout.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CheckoutInitiatedEvent is published when a session hands its cart to the
// checkout collaborator. The cart is not cleared until a completion event
// comes back.
type CheckoutInitiatedEvent struct {
	BaseEvent
	SessionID  string         `json:"session_id"`
	CheckoutID string         `json:"checkout_id"`
	Total      float64        `json:"total"`
	Items      []CheckoutItem `json:"items"`
}

// CheckoutCompletedEvent is published by the checkout collaborator on success.
type CheckoutCompletedEvent struct {
	BaseEvent
	SessionID      string `json:"session_id"`
	CheckoutID     string `json:"checkout_id"`
	ConfirmationID string `json:"confirmation_id"`
}

// CheckoutFailedEvent is published by the checkout collaborator on failure.
// The session keeps its cart so the visitor can retry.
type CheckoutFailedEvent struct {
	BaseEvent
	SessionID  string `json:"session_id"`
	CheckoutID string `json:"checkout_id"`
	Reason     string `json:"reason"`
}
