package models

import "time"

// Known product categories for the recycled-electronics catalog. Products
// keep whatever category string the remote sends; these constants only drive
// placeholder/icon selection.
const (
	CategoryRAM          = "RAM"
	CategoryMotherboards = "Motherboards"
	CategoryStorage      = "Storage"
	CategoryProcessors   = "Processors"
	CategoryLaptops      = "Laptops"
)

// CategoryAll is the sentinel filter value that disables category filtering.
const CategoryAll = "All"

// KnownCategories lists the categories with dedicated icons and fallback
// images. Anything else uses the defaults.
var KnownCategories = []string{
	CategoryRAM,
	CategoryMotherboards,
	CategoryStorage,
	CategoryProcessors,
	CategoryLaptops,
}

// Product is one catalog record. Immutable once fetched; the storefront
// never writes back to the catalog.
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	Rating      float64   `db:"rating" json:"rating"`
	Stock       int       `db:"stock" json:"stock"`
	Image       string    `db:"image" json:"image"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// SortOption selects the ordering of the derived product view.
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRating    SortOption = "rating"
)

// ViewState is the visitor-controlled filter/search/sort selection. Owned by
// the session; the catalog store and cart never write it.
type ViewState struct {
	Category string     `json:"category"`
	Search   string     `json:"search"`
	Sort     SortOption `json:"sort"`
}

// DefaultViewState returns the state a fresh session starts from.
func DefaultViewState() ViewState {
	return ViewState{
		Category: CategoryAll,
		Sort:     SortNewest,
	}
}

// CartLine is one product's accumulated quantity in a cart, carrying the
// product snapshot captured at add time.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
