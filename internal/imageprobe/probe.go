// Package imageprobe resolves product image references out of band. Each
// card is a two-state machine: resolving until the probe answers, then
// resolved or permanently degraded to a category fallback image.
package imageprobe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// State of one card's image resolution.
type State string

const (
	StateResolving State = "resolving"
	StateResolved  State = "resolved"
	StateDegraded  State = "degraded"
)

const defaultPlaceholder = "/assets/fallback/fallback.png"

var categoryPlaceholders = map[string]string{
	models.CategoryRAM:          "/assets/fallback/ram.jpg",
	models.CategoryMotherboards: "/assets/fallback/mother.jpg",
	models.CategoryStorage:      "/assets/fallback/ssd.jpg",
	models.CategoryProcessors:   "/assets/fallback/cpu.jpg",
	models.CategoryLaptops:      "/assets/fallback/laptop.jpg",
}

var categoryIcons = map[string]string{
	models.CategoryRAM:          "memory",
	models.CategoryMotherboards: "diagram",
	models.CategoryStorage:      "hdd",
	models.CategoryProcessors:   "microchip",
	models.CategoryLaptops:      "laptop",
}

// Placeholder returns the fallback image for a category, one per known
// category plus a default for everything else.
func Placeholder(category string) string {
	if p, ok := categoryPlaceholders[category]; ok {
		return p
	}
	return defaultPlaceholder
}

// Icon returns the icon name shown while a card is unresolved.
func Icon(category string) string {
	if i, ok := categoryIcons[category]; ok {
		return i
	}
	return "laptop"
}

// Prober probes image URLs asynchronously, one outcome per product ID.
// Outcomes are independent across cards and never revisited: repeated
// failures do not loop, and Ensure on an already-probed card is a no-op.
// Probes are tied to the prober's lifetime and cancelled by Close.
type Prober struct {
	client *http.Client
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	states map[string]State
}

// NewProber creates a prober whose probes time out after timeout.
func NewProber(timeout time.Duration) *Prober {
	ctx, cancel := context.WithCancel(context.Background())
	return &Prober{
		client: &http.Client{Timeout: timeout},
		logger: util.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
		states: make(map[string]State),
	}
}

// Ensure starts a probe for the product's image unless one already ran or
// is running. Fire-and-forget; render reads the state later.
func (p *Prober) Ensure(productID, imageURL string) {
	p.mu.Lock()
	if _, ok := p.states[productID]; ok {
		p.mu.Unlock()
		return
	}
	p.states[productID] = StateResolving
	p.mu.Unlock()

	if imageURL == "" {
		p.finish(productID, StateDegraded)
		return
	}

	go p.probe(productID, imageURL)
}

func (p *Prober) probe(productID, imageURL string) {
	req, err := http.NewRequestWithContext(p.ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		p.finish(productID, StateDegraded)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Image probe failed",
			zap.String("product_id", productID),
			zap.Error(err))
		p.finish(productID, StateDegraded)
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.finish(productID, StateDegraded)
		return
	}
	p.finish(productID, StateResolved)
}

func (p *Prober) finish(productID string, state State) {
	util.ImageProbesTotal.WithLabelValues(string(state)).Inc()
	p.mu.Lock()
	p.states[productID] = state
	p.mu.Unlock()
}

// State returns the card's current state; a card never probed reports
// resolving, matching the placeholder shown before the probe starts.
func (p *Prober) State(productID string) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.states[productID]; ok {
		return s
	}
	return StateResolving
}

// Resolve returns the image URL to render for a card and whether the card
// is degraded. Unresolved and degraded cards get the category fallback.
func (p *Prober) Resolve(productID, imageURL, category string) (string, bool) {
	switch p.State(productID) {
	case StateResolved:
		return imageURL, false
	case StateDegraded:
		return Placeholder(category), true
	default:
		return Placeholder(category), false
	}
}

// Close cancels any in-flight probes.
func (p *Prober) Close() {
	p.cancel()
}
