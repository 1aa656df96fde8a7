package pricefeed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var ErrNotFound = fmt.Errorf("metal price: %w", httpx.ErrNotFound)

type Repository interface {
	Insert(ctx context.Context, p MetalPrice) error
	Latest(ctx context.Context, metal, currency string) (*MetalPrice, error)
	LatestAll(ctx context.Context, currency string) ([]MetalPrice, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, p MetalPrice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO metal_prices (metal, currency, price_per_gram, run_id, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.Metal, p.Currency, p.PricePerGram, p.RunID, p.FetchedAt)
	return err
}

func (r *repository) Latest(ctx context.Context, metal, currency string) (*MetalPrice, error) {
	var p MetalPrice
	err := r.pool.QueryRow(ctx, `
		SELECT id, metal, currency, price_per_gram, run_id, fetched_at
		FROM metal_prices
		WHERE metal = $1 AND currency = $2
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, metal, currency).Scan(&p.ID, &p.Metal, &p.Currency, &p.PricePerGram, &p.RunID, &p.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) LatestAll(ctx context.Context, currency string) ([]MetalPrice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (metal) id, metal, currency, price_per_gram, run_id, fetched_at
		FROM metal_prices
		WHERE currency = $1
		ORDER BY metal, fetched_at DESC, id DESC
	`, currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MetalPrice
	for rows.Next() {
		var p MetalPrice
		if err := rows.Scan(&p.ID, &p.Metal, &p.Currency, &p.PricePerGram, &p.RunID, &p.FetchedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
