package repository

import (
	"context"
	"fmt"
	"time"

	"elysoir/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository archives the normalized catalog after each remote sync.
// The storefront never reads from it; it exists for reporting and audit.
type ProductRepository interface {
	SaveProducts(ctx context.Context, products []domain.Product, syncedAt time.Time) error
}

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r *productRepository) SaveProducts(ctx context.Context, products []domain.Product, syncedAt time.Time) error {
	if len(products) == 0 {
		return nil
	}

	query := `
	INSERT INTO product_snapshots (id, category, price, data, synced_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET category = $2, price = $3, data = $4, synced_at = $5`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Category, p.Price.String(), p, syncedAt)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, err)
		}
	}

	return nil
}

type noopProductRepository struct{}

// NewNoopProductRepository is used when no database is configured.
func NewNoopProductRepository() ProductRepository {
	return noopProductRepository{}
}

func (noopProductRepository) SaveProducts(context.Context, []domain.Product, time.Time) error {
	return nil
}
