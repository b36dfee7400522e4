package session

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/imageprobe"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager tracks live sessions and routes checkout results back to them.
type Manager struct {
	source       catalog.Source
	cache        catalog.Cache
	publisher    CheckoutPublisher
	probeTimeout time.Duration
	logger       *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. cache may be nil.
func NewManager(source catalog.Source, cache catalog.Cache, publisher CheckoutPublisher, probeTimeout time.Duration) *Manager {
	return &Manager{
		source:       source,
		cache:        cache,
		publisher:    publisher,
		probeTimeout: probeTimeout,
		logger:       util.GetLogger(),
		sessions:     make(map[string]*Session),
	}
}

// Create registers a new session and fires its initial catalog load in the
// background; the view reports loading until it resolves.
func (m *Manager) Create() *Session {
	id := uuid.New().String()
	store := catalog.NewStore(m.source, m.cache)
	prober := imageprobe.NewProber(m.probeTimeout)
	sess := New(id, store, prober, m.publisher)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	util.SessionsCreatedTotal.Inc()
	m.logger.Info("Session created", zap.String("session_id", id))

	sess.LoadBackground()
	return sess
}

// Get returns a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Remove closes and deregisters a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// HandleCheckoutCompleted routes a completion event to its session. Events
// for sessions that no longer exist are dropped.
func (m *Manager) HandleCheckoutCompleted(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	sess, ok := m.Get(event.SessionID)
	if !ok {
		m.logger.Warn("Checkout completion for unknown session",
			zap.String("session_id", event.SessionID))
		return nil
	}
	sess.CompleteCheckout(event.CheckoutID)
	return nil
}

// HandleCheckoutFailed routes a failure event to its session.
func (m *Manager) HandleCheckoutFailed(ctx context.Context, event *models.CheckoutFailedEvent) error {
	sess, ok := m.Get(event.SessionID)
	if !ok {
		return nil
	}
	sess.FailCheckout(event.CheckoutID, event.Reason)
	return nil
}

// Shutdown closes every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		sess.Close()
		delete(m.sessions, id)
	}
}
