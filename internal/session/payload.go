package session

import (
	"time"

	"storefront-service/internal/models"
)

// ProductCard is one visible product as handed to the grid: the catalog
// record plus the image resolution outcome and per-visitor flags.
type ProductCard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	Image       string    `json:"image"`
	ImageState  string    `json:"image_state"`
	Icon        string    `json:"icon"`
	Degraded    bool      `json:"degraded"`
	OutOfStock  bool      `json:"out_of_stock"`
	Wishlisted  bool      `json:"wishlisted"`
}

// CartSummary feeds the cart preview widget.
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

// CartPayload feeds the cart modal: resolved lines plus totals.
type CartPayload struct {
	Lines     []models.CartLine `json:"lines"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// ViewPayload is the full products-page payload: the derived grid, filter
// metadata, fetch lifecycle flags, and the cart summary.
type ViewPayload struct {
	Products    []ProductCard    `json:"products"`
	Categories  []string         `json:"categories"`
	State       models.ViewState `json:"state"`
	Loading     bool             `json:"loading"`
	InitialLoad bool             `json:"initial_load"`
	Error       string           `json:"error,omitempty"`
	Cart        CartSummary      `json:"cart"`
}
