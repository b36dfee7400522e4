package session

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	m := NewManager(&staticSource{products: testProducts()}, nil, pub, time.Second)
	t.Cleanup(m.Shutdown)
	return m, pub
}

func waitLoaded(t *testing.T, sess *Session) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !sess.View(context.Background()).InitialLoad
	}, 2*time.Second, 5*time.Millisecond)
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)

	sess := m.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestManagerCreateTriggersInitialLoad(t *testing.T) {
	m, _ := newTestManager(t)

	sess := m.Create()
	waitLoaded(t, sess)

	assert.Len(t, sess.View(context.Background()).Products, 2)
}

func TestManagerRemove(t *testing.T) {
	m, _ := newTestManager(t)
	sess := m.Create()

	m.Remove(sess.ID)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok)
}

func TestManagerRoutesCheckoutCompletion(t *testing.T) {
	m, pub := newTestManager(t)
	sess := m.Create()
	waitLoaded(t, sess)

	sess.AddToCart("p1")
	checkoutID, err := sess.Checkout(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pub.last())

	err = m.HandleCheckoutCompleted(context.Background(), &models.CheckoutCompletedEvent{
		SessionID:  sess.ID,
		CheckoutID: checkoutID,
	})
	require.NoError(t, err)

	assert.Zero(t, sess.Cart().ItemCount)
}

func TestManagerRoutesCheckoutFailure(t *testing.T) {
	m, _ := newTestManager(t)
	sess := m.Create()
	waitLoaded(t, sess)

	sess.AddToCart("p1")
	checkoutID, err := sess.Checkout(context.Background())
	require.NoError(t, err)

	err = m.HandleCheckoutFailed(context.Background(), &models.CheckoutFailedEvent{
		SessionID:  sess.ID,
		CheckoutID: checkoutID,
		Reason:     "declined",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, sess.Cart().ItemCount, "cart kept for retry")
}

func TestManagerDropsEventsForUnknownSession(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.HandleCheckoutCompleted(context.Background(), &models.CheckoutCompletedEvent{
		SessionID:  "gone",
		CheckoutID: "whatever",
	})

	assert.NoError(t, err)
}
