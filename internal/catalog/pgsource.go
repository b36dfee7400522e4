package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PGSource serves the catalog from a Postgres products table, for
// deployments where the storefront shares a database with the marketplace
// backend instead of calling its HTTP API.
type PGSource struct {
	db *sqlx.DB
}

// NewPGSource connects to the database and verifies the connection.
func NewPGSource(databaseURL string) (*PGSource, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PGSource{db: db}, nil
}

// Close closes the database connection
func (s *PGSource) Close() error {
	return s.db.Close()
}

type productRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Category    string          `db:"category"`
	Price       float64         `db:"price"`
	Rating      sql.NullFloat64 `db:"rating"`
	Stock       int             `db:"stock"`
	Image       sql.NullString  `db:"image"`
	CreatedAt   sql.NullTime    `db:"created_at"`
}

// Fetch retrieves the full product table, applying the same normalization
// guarantees as the HTTP source.
func (s *PGSource) Fetch(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, description, category, price, rating, stock, image, created_at FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	now := time.Now()
	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		createdAt := now
		if r.CreatedAt.Valid {
			createdAt = r.CreatedAt.Time
		}
		products = append(products, models.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description.String,
			Category:    r.Category,
			Price:       r.Price,
			Rating:      r.Rating.Float64,
			Stock:       r.Stock,
			Image:       r.Image.String,
			CreatedAt:   createdAt,
		})
	}
	return products, nil
}
