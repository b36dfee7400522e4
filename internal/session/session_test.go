package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/imageprobe"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t1 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
)

// Products have no image URLs so probes settle without any network.
func testProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "DDR4 RAM 16GB", Description: "memory kit", Category: models.CategoryRAM, Price: 10, Rating: 4.5, Stock: 2, CreatedAt: t1},
		{ID: "p2", Name: "1TB SSD", Description: "solid state drive", Category: models.CategoryStorage, Price: 5, Rating: 3.0, Stock: 0, CreatedAt: t2},
	}
}

type staticSource struct {
	mu       sync.Mutex
	products []models.Product
	err      error
}

func (s *staticSource) Fetch(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products, s.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.CheckoutInitiatedEvent
	err    error
}

func (p *fakePublisher) PublishCheckoutInitiated(ctx context.Context, event *models.CheckoutInitiatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) last() *models.CheckoutInitiatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func newTestSession(t *testing.T, src catalog.Source, pub CheckoutPublisher) *Session {
	t.Helper()
	store := catalog.NewStore(src, nil)
	prober := imageprobe.NewProber(time.Second)
	sess := New("test-session", store, prober, pub)
	t.Cleanup(sess.Close)
	require.NoError(t, sess.Load(context.Background()))
	return sess
}

func cardIDs(cards []ProductCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestViewDefaultState(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	payload := sess.View(context.Background())

	assert.Equal(t, []string{"p2", "p1"}, cardIDs(payload.Products), "newest first")
	assert.Equal(t, []string{"All", "RAM", "Storage"}, payload.Categories)
	assert.Empty(t, payload.Error)
	assert.False(t, payload.Loading)
	assert.False(t, payload.InitialLoad)
	assert.Zero(t, payload.Cart.ItemCount)
}

func TestViewCategoryFilter(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.SetCategory(models.CategoryRAM)
	payload := sess.View(context.Background())

	assert.Equal(t, []string{"p1"}, cardIDs(payload.Products))
	assert.Equal(t, models.CategoryRAM, payload.State.Category)
}

func TestViewSortPriceLow(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.SetSort(models.SortPriceLow)
	payload := sess.View(context.Background())

	assert.Equal(t, []string{"p2", "p1"}, cardIDs(payload.Products))
}

func TestViewSearch(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.SetSearch("ram")
	payload := sess.View(context.Background())

	assert.Equal(t, []string{"p1"}, cardIDs(payload.Products))
}

func TestClearFiltersKeepsSort(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})
	sess.SetCategory(models.CategoryRAM)
	sess.SetSearch("ram")
	sess.SetSort(models.SortPriceHigh)

	sess.ClearFilters()

	state := sess.ViewState()
	assert.Equal(t, models.CategoryAll, state.Category)
	assert.Empty(t, state.Search)
	assert.Equal(t, models.SortPriceHigh, state.Sort)
}

func TestViewMarksOutOfStockAndDegradedCards(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	payload := sess.View(context.Background())

	byID := map[string]ProductCard{}
	for _, card := range payload.Products {
		byID[card.ID] = card
	}
	assert.False(t, byID["p1"].OutOfStock)
	assert.True(t, byID["p2"].OutOfStock)

	// Empty image references degrade straight to the category fallback.
	assert.True(t, byID["p2"].Degraded)
	assert.Equal(t, "/assets/fallback/ssd.jpg", byID["p2"].Image)
	assert.Equal(t, "hdd", byID["p2"].Icon)
}

func TestViewSurfacesFetchError(t *testing.T) {
	src := &staticSource{products: testProducts()}
	sess := newTestSession(t, src, &fakePublisher{})

	src.mu.Lock()
	src.err = errors.New("remote down")
	src.mu.Unlock()
	require.Error(t, sess.Load(context.Background()))

	payload := sess.View(context.Background())
	assert.Equal(t, "remote down", payload.Error)
	assert.Len(t, payload.Products, 2, "previous catalog still shown")
}

func TestAddToCartResolvesAgainstCatalog(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.AddToCart("p1")
	sess.AddToCart("p1")

	payload := sess.Cart()
	require.Len(t, payload.Lines, 1)
	assert.Equal(t, 2, payload.Lines[0].Quantity)
	assert.Equal(t, 20.0, payload.Total)
	assert.Equal(t, 2, payload.ItemCount)
}

func TestAddToCartIgnoresOutOfStock(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.AddToCart("p2")

	assert.Empty(t, sess.Cart().Lines)
}

func TestAddToCartIgnoresUnknownProduct(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.AddToCart("no-such-id")

	assert.Empty(t, sess.Cart().Lines)
}

func TestWishlistThroughSession(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	sess.ToggleWishlist("p1")
	assert.True(t, sess.InWishlist("p1"))

	payload := sess.View(context.Background())
	for _, card := range payload.Products {
		assert.Equal(t, card.ID == "p1", card.Wishlisted)
	}

	sess.ToggleWishlist("p1")
	assert.False(t, sess.InWishlist("p1"))
	assert.Empty(t, sess.WishlistIDs())
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	sess := newTestSession(t, &staticSource{products: testProducts()}, &fakePublisher{})

	_, err := sess.Checkout(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutPublishesCartSnapshot(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &staticSource{products: testProducts()}, pub)
	sess.AddToCart("p1")
	sess.AddToCart("p1")

	checkoutID, err := sess.Checkout(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, checkoutID)

	event := pub.last()
	require.NotNil(t, event)
	assert.Equal(t, "test-session", event.SessionID)
	assert.Equal(t, checkoutID, event.CheckoutID)
	assert.Equal(t, 20.0, event.Total)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "p1", event.Items[0].ProductID)
	assert.Equal(t, 2, event.Items[0].Quantity)
	assert.Equal(t, 10.0, event.Items[0].UnitPrice)

	// Cart untouched until the collaborator confirms.
	assert.Equal(t, 2, sess.Cart().ItemCount)
}

func TestCompleteCheckoutClearsCart(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &staticSource{products: testProducts()}, pub)
	sess.AddToCart("p1")

	checkoutID, err := sess.Checkout(context.Background())
	require.NoError(t, err)

	sess.CompleteCheckout(checkoutID)

	payload := sess.Cart()
	assert.Empty(t, payload.Lines)
	assert.Zero(t, payload.Total)
	assert.Zero(t, payload.ItemCount)
}

func TestCompleteCheckoutIgnoresUnknownID(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &staticSource{products: testProducts()}, pub)
	sess.AddToCart("p1")
	_, err := sess.Checkout(context.Background())
	require.NoError(t, err)

	sess.CompleteCheckout("some-other-checkout")

	assert.Equal(t, 1, sess.Cart().ItemCount)
}

func TestFailCheckoutRetainsCart(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &staticSource{products: testProducts()}, pub)
	sess.AddToCart("p1")
	checkoutID, err := sess.Checkout(context.Background())
	require.NoError(t, err)

	sess.FailCheckout(checkoutID, "declined")

	assert.Equal(t, 1, sess.Cart().ItemCount)

	// A late completion for the failed checkout must not clear the cart.
	sess.CompleteCheckout(checkoutID)
	assert.Equal(t, 1, sess.Cart().ItemCount)
}

func TestCheckoutPublishFailureSurfaced(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	sess := newTestSession(t, &staticSource{products: testProducts()}, pub)
	sess.AddToCart("p1")

	_, err := sess.Checkout(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, sess.Cart().ItemCount)
}
