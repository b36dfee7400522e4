// Package catalog fetches and owns the product set for a storefront session.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

// Source yields the full product collection from the remote catalog
// collaborator. The store treats the collaborator as opaque; HTTP and
// Postgres implementations are provided.
type Source interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}

// HTTPSource fetches products from a remote JSON endpoint.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source reading GET {baseURL}/api/products.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// productRecord is the wire shape of one remote product. The remote may key
// the identifier as "_id" (legacy) or "id", and may omit the creation
// timestamp entirely.
type productRecord struct {
	ID          string     `json:"id"`
	LegacyID    string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Rating      float64    `json:"rating"`
	Stock       int        `json:"stock"`
	Image       string     `json:"image"`
	CreatedAt   *time.Time `json:"createdAt"`
}

type productsResponse struct {
	Products []productRecord `json:"products"`
}

// Fetch retrieves and normalizes the remote product collection.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch products: status %d", resp.StatusCode)
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return normalize(payload.Products, time.Now()), nil
}

// normalize guarantees each record a unique identifier and a valid creation
// timestamp, defaulting the timestamp to fetch time when the remote omits it.
func normalize(records []productRecord, fetchedAt time.Time) []models.Product {
	products := make([]models.Product, 0, len(records))
	for _, r := range records {
		id := r.LegacyID
		if id == "" {
			id = r.ID
		}
		if id == "" {
			id = uuid.New().String()
		}

		createdAt := fetchedAt
		if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
			createdAt = *r.CreatedAt
		}

		products = append(products, models.Product{
			ID:          id,
			Name:        r.Name,
			Description: r.Description,
			Category:    r.Category,
			Price:       r.Price,
			Rating:      r.Rating,
			Stock:       r.Stock,
			Image:       r.Image,
			CreatedAt:   createdAt,
		})
	}
	return products
}
