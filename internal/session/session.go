// Package session owns one storefront visitor's state: the catalog store,
// cart, wishlist, and view selection. All mutation goes through Session
// methods under one mutex, so operations apply in dispatch order.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/imageprobe"
	"storefront-service/internal/models"
	"storefront-service/internal/util"
	"storefront-service/internal/view"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checkout is requested with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutPublisher hands the cart off to the checkout collaborator.
// Satisfied by broker.EventPublisher.
type CheckoutPublisher interface {
	PublishCheckoutInitiated(ctx context.Context, event *models.CheckoutInitiatedEvent) error
}

// Session is one visitor's storefront state.
type Session struct {
	ID string

	mu              sync.Mutex
	catalog         *catalog.Store
	cart            *cart.Cart
	wishlist        *cart.Wishlist
	prober          *imageprobe.Prober
	publisher       CheckoutPublisher
	logger          *zap.Logger
	view            models.ViewState
	pendingCheckout string
}

// New creates a session over the given collaborators.
func New(id string, store *catalog.Store, prober *imageprobe.Prober, publisher CheckoutPublisher) *Session {
	return &Session{
		ID:        id,
		catalog:   store,
		cart:      cart.New(),
		wishlist:  cart.NewWishlist(),
		prober:    prober,
		publisher: publisher,
		logger:    util.GetLogger().With(zap.String("session_id", id)),
		view:      models.DefaultViewState(),
	}
}

// Load fetches the catalog. Also bound to the error banner's retry action.
func (s *Session) Load(ctx context.Context) error {
	return s.catalog.Load(ctx)
}

// LoadBackground fires a catalog fetch without blocking the caller; the
// view reports loading until it resolves.
func (s *Session) LoadBackground() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = s.catalog.Load(ctx)
	}()
}

// SetCategory updates the category filter.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = models.CategoryAll
	}
	s.view.Category = category
}

// SetSearch updates the search term.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Search = term
}

// SetSort updates the sort option. Unknown options fall through to the
// default newest-first ordering at derive time.
func (s *Session) SetSort(sort models.SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sort == "" {
		sort = models.SortNewest
	}
	s.view.Sort = sort
}

// ClearFilters resets search and category. The sort option is kept.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Search = ""
	s.view.Category = models.CategoryAll
}

// ViewState returns the current filter/search/sort selection.
func (s *Session) ViewState() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// AddToCart adds one unit of a catalog product. Unknown product IDs and
// out-of-stock products are silently ignored.
func (s *Session) AddToCart(productID string) {
	product, ok := s.catalog.Product(productID)
	if !ok {
		util.CartOperationsIgnoredTotal.WithLabelValues("unknown_product").Inc()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(product)
}

// RemoveFromCart deletes the product's line.
func (s *Session) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
}

// UpdateQuantity replaces a line's quantity; quantities below 1 are ignored.
func (s *Session) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, quantity)
}

// ToggleWishlist flips the product's wishlist membership.
func (s *Session) ToggleWishlist(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist.Toggle(productID)
}

// InWishlist reports the product's wishlist membership.
func (s *Session) InWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.Contains(productID)
}

// WishlistIDs returns the wishlisted product IDs in insertion order.
func (s *Session) WishlistIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.IDs()
}

// Cart returns the resolved cart lines and totals for the cart modal.
func (s *Session) Cart() CartPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartPayload{
		Lines:     s.cart.Lines(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}

// View derives the visible product list from the current catalog and view
// state, kicks off image probes for the visible cards, and assembles the
// full page payload.
func (s *Session) View(ctx context.Context) ViewPayload {
	_, span := util.StartSpan(ctx, "Session.View")
	defer span.End()

	products := s.catalog.Products()

	s.mu.Lock()
	state := s.view
	visible := view.Derive(products, state)

	cards := make([]ProductCard, 0, len(visible))
	for _, p := range visible {
		s.prober.Ensure(p.ID, p.Image)
		image, degraded := s.prober.Resolve(p.ID, p.Image, p.Category)
		cards = append(cards, ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Rating:      p.Rating,
			Stock:       p.Stock,
			CreatedAt:   p.CreatedAt,
			Image:       image,
			ImageState:  string(s.prober.State(p.ID)),
			Icon:        imageprobe.Icon(p.Category),
			Degraded:    degraded,
			OutOfStock:  !p.InStock(),
			Wishlisted:  s.wishlist.Contains(p.ID),
		})
	}

	payload := ViewPayload{
		Products:   cards,
		Categories: view.Categories(products),
		State:      state,
		Error:      s.catalog.Err(),
		Cart: CartSummary{
			ItemCount: s.cart.ItemCount(),
			Total:     s.cart.Total(),
		},
	}
	s.mu.Unlock()

	payload.Loading = s.catalog.Loading()
	payload.InitialLoad = s.catalog.InitialLoad()
	return payload
}

// Checkout hands the cart off to the checkout collaborator and returns the
// checkout ID. The cart is only cleared when the collaborator confirms
// completion. An empty cart is rejected before any handoff.
func (s *Session) Checkout(ctx context.Context) (string, error) {
	ctx, span := util.StartSpan(ctx, "Session.Checkout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return "", ErrEmptyCart
	}

	lines := s.cart.Lines()
	items := make([]models.CheckoutItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.CheckoutItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
		})
	}

	event := &models.CheckoutInitiatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutInitiated,
			Timestamp: time.Now(),
		},
		SessionID:  s.ID,
		CheckoutID: uuid.New().String(),
		Total:      s.cart.Total(),
		Items:      items,
	}

	if err := s.publisher.PublishCheckoutInitiated(ctx, event); err != nil {
		return "", err
	}

	util.CheckoutsInitiatedTotal.Inc()
	s.pendingCheckout = event.CheckoutID
	s.logger.Info("Checkout initiated",
		zap.String("checkout_id", event.CheckoutID),
		zap.Float64("total", event.Total))
	return event.CheckoutID, nil
}

// CompleteCheckout clears the cart once the pending checkout is confirmed.
// Results for unknown or superseded checkout IDs are ignored.
func (s *Session) CompleteCheckout(checkoutID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if checkoutID == "" || checkoutID != s.pendingCheckout {
		return
	}
	s.cart.Clear()
	s.pendingCheckout = ""
	util.CheckoutsCompletedTotal.Inc()
	s.logger.Info("Checkout completed, cart cleared", zap.String("checkout_id", checkoutID))
}

// FailCheckout releases the pending checkout; the cart is kept so the
// visitor can retry.
func (s *Session) FailCheckout(checkoutID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if checkoutID == "" || checkoutID != s.pendingCheckout {
		return
	}
	s.pendingCheckout = ""
	util.CheckoutsFailedTotal.Inc()
	s.logger.Warn("Checkout failed, cart retained",
		zap.String("checkout_id", checkoutID),
		zap.String("reason", reason))
}

// Close cancels session-scoped background work.
func (s *Session) Close() {
	s.prober.Close()
}
