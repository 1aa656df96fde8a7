package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var ErrNotFound = fmt.Errorf("catalog: %w", httpx.ErrNotFound)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (int64, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasItems(ctx context.Context, id int64) (bool, error)

	GetItem(ctx context.Context, id int64) (*Item, error)
	ListItems(ctx context.Context, req ListItemsRequest) ([]Item, int, error)
	CreateItem(ctx context.Context, item Item) (int64, error)
	UpdateItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CategoryHasItems(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE category_id = $1)`, id).Scan(&exists)
	return exists, err
}

const itemColumns = `id, category_id, name, description, labour_hours, metal_type,
       metal_karat, metal_grams, base_price, created_at, updated_at`

func (r *repository) GetItem(ctx context.Context, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM items WHERE id = $1`, itemColumns), id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) ListItems(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argPos))
		args = append(args, *req.CategoryID)
		argPos++
	}
	if s := strings.TrimSpace(req.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+s+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM items %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM items %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		itemColumns, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, rows.Err()
}

func (r *repository) CreateItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO items (category_id, name, description, labour_hours, metal_type,
		                   metal_karat, metal_grams, base_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, item.CategoryID, item.Name, item.Description, item.LabourHours, item.MetalType,
		item.MetalKarat, item.MetalGrams, item.BasePrice).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateItem(ctx context.Context, item Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE items
		SET category_id = $1, name = $2, description = $3, labour_hours = $4,
		    metal_type = $5, metal_karat = $6, metal_grams = $7, base_price = $8,
		    updated_at = NOW()
		WHERE id = $9
	`, item.CategoryID, item.Name, item.Description, item.LabourHours,
		item.MetalType, item.MetalKarat, item.MetalGrams, item.BasePrice, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description,
		&item.LabourHours, &item.MetalType, &item.MetalKarat, &item.MetalGrams,
		&item.BasePrice, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
