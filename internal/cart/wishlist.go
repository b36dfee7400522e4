package cart

import "storefront-service/internal/util"

// Wishlist is a toggle-membership set of product IDs, independent of cart
// and stock state. Insertion order is preserved for listing.
type Wishlist struct {
	ids []string
}

// NewWishlist creates an empty wishlist.
func NewWishlist() *Wishlist {
	return &Wishlist{}
}

// Toggle adds the id if absent and removes it if present.
func (w *Wishlist) Toggle(productID string) {
	util.WishlistTogglesTotal.Inc()
	for i, id := range w.ids {
		if id == productID {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return
		}
	}
	w.ids = append(w.ids, productID)
}

// Contains reports membership.
func (w *Wishlist) Contains(productID string) bool {
	for _, id := range w.ids {
		if id == productID {
			return true
		}
	}
	return false
}

// IDs returns the wishlisted product IDs in insertion order.
func (w *Wishlist) IDs() []string {
	out := make([]string, len(w.ids))
	copy(out, w.ids)
	return out
}
