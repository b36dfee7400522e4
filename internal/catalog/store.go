package catalog

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Cache is the optional last-known-catalog cache consulted when the remote
// is unreachable. Satisfied by redisclient.Client.
type Cache interface {
	SetCatalog(ctx context.Context, products []models.Product) error
	GetCatalog(ctx context.Context) ([]models.Product, bool, error)
}

// Store owns the product set for one session and its fetch lifecycle.
//
// Load may be called again before a previous call resolves; each request
// carries a sequence number and only the latest issued request may commit
// its result, so a slow stale response can never overwrite fresher data.
type Store struct {
	source Source
	cache  Cache // may be nil
	logger *zap.Logger

	mu       sync.Mutex
	products []models.Product
	errmsg   string
	inflight int
	seq      uint64
	loaded   bool
}

// NewStore creates a store over the given source. cache may be nil.
func NewStore(source Source, cache Cache) *Store {
	return &Store{
		source: source,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Load fetches the product collection and, if this is still the latest
// issued request, replaces the whole product set. On success any stored
// error is cleared; on failure the previous set is retained and the error
// description stored. Returns the fetch error, if any, for callers that
// load synchronously.
func (s *Store) Load(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CatalogStore.Load")
	defer span.End()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.mu.Unlock()

	start := time.Now()
	products, err := s.source.Fetch(ctx)
	util.CatalogFetchLatency.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if seq != s.seq {
		util.CatalogStaleDropsTotal.Inc()
		s.logger.Debug("Discarding superseded catalog response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq))
		return nil
	}

	if err != nil {
		util.CatalogFetchesTotal.WithLabelValues("error").Inc()
		s.errmsg = err.Error()
		s.logger.Warn("Catalog fetch failed", zap.Error(err))
		if len(s.products) == 0 {
			s.restoreFromCache(ctx)
		}
		return err
	}

	util.CatalogFetchesTotal.WithLabelValues("success").Inc()
	s.products = products
	s.errmsg = ""
	s.loaded = true
	s.logger.Info("Catalog loaded", zap.Int("count", len(products)))

	if s.cache != nil {
		if cerr := s.cache.SetCatalog(ctx, products); cerr != nil {
			s.logger.Warn("Failed to cache catalog", zap.Error(cerr))
		}
	}
	return nil
}

// restoreFromCache falls back to the last cached product set on a failed
// first load. The stored error stays set: the retry banner still shows, the
// stale catalog renders underneath. Caller holds s.mu.
func (s *Store) restoreFromCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	cached, ok, err := s.cache.GetCatalog(ctx)
	if err != nil {
		s.logger.Warn("Catalog cache read failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	util.CatalogCacheHitsTotal.Inc()
	s.products = cached
	s.logger.Info("Serving cached catalog while remote is down", zap.Int("count", len(cached)))
}

// Products returns a snapshot of the current product set.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up one product by ID in the current set.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Err returns the stored fetch error description, empty when the last
// resolved fetch succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errmsg
}

// Loading reports whether a fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// InitialLoad reports whether no fetch has succeeded yet; the grid shows
// skeletons only in that window.
func (s *Store) InitialLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loaded
}
