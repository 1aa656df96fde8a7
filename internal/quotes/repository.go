package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumworks/aurum/internal/platform/db"
	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var ErrNotFound = fmt.Errorf("quote: %w", httpx.ErrNotFound)

// Repository is the persistence boundary of the quote core. WithTx hands the
// callback a Repository bound to one transaction; every mutating sequence in
// the service runs inside it.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	GetQuote(ctx context.Context, id int64) (*Quote, error)
	ListQuotes(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error)
	NextSequence(ctx context.Context, year int) (int, error)
	CreateQuote(ctx context.Context, q Quote) (int64, error)
	UpdateQuote(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteQuote(ctx context.Context, id int64) error

	ListItems(ctx context.Context, quoteID int64) ([]QuoteItem, error)
	GetItem(ctx context.Context, quoteID, itemID int64) (*QuoteItem, error)
	InsertItem(ctx context.Context, item QuoteItem) (int64, error)
	UpdateItem(ctx context.Context, item QuoteItem) error
	DeleteItem(ctx context.Context, quoteID, itemID int64) error
	MaxSortOrder(ctx context.Context, quoteID int64) (int, error)

	InsertVersion(ctx context.Context, v QuoteVersion) (SnapshotOutcome, error)
	ListVersions(ctx context.Context, quoteID int64, limit int) ([]QuoteVersion, error)
	GetVersion(ctx context.Context, quoteID int64, versionNum int) (*QuoteVersion, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const quoteColumns = `id, number, customer_id, status, subtotal, markup_pct, markup_amount,
       discount, total, notes, valid_until, version, breakdown, created_at, updated_at`

func (r *repository) GetQuote(ctx context.Context, id int64) (*Quote, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM quotes WHERE id = $1`, quoteColumns), id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Items = items
	return q, nil
}

func (r *repository) ListQuotes(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quotes %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM quotes %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		quoteColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *q)
	}
	return result, total, rows.Err()
}

// NextSequence allocates the next quote number for the year atomically, so
// concurrent creates never race on a count-then-insert.
func (r *repository) NextSequence(ctx context.Context, year int) (int, error) {
	var seq int
	err := r.db.QueryRow(ctx, `
		INSERT INTO quote_sequences (year, seq)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET seq = quote_sequences.seq + 1
		RETURNING seq
	`, year).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *repository) CreateQuote(ctx context.Context, q Quote) (int64, error) {
	breakdown, err := marshalBreakdown(q.Breakdown)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO quotes (number, customer_id, status, subtotal, markup_pct, markup_amount,
		                    discount, total, notes, valid_until, version, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, q.Number, q.CustomerID, q.Status, q.Subtotal, q.MarkupPct, q.MarkupAmount,
		q.Discount, q.Total, q.Notes, q.ValidUntil, q.Version, breakdown).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// quoteUpdateColumns whitelists the fields UpdateQuote may touch.
var quoteUpdateColumns = []string{
	"customer_id", "status", "subtotal", "markup_pct", "markup_amount",
	"discount", "total", "notes", "valid_until", "version", "breakdown",
}

func (r *repository) UpdateQuote(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE quotes SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range quoteUpdateColumns {
		v, ok := updates[col]
		if !ok {
			continue
		}
		if col == "breakdown" {
			data, err := marshalBreakdown(v.(*CostBreakdown))
			if err != nil {
				return err
			}
			v = data
		}
		query += fmt.Sprintf(", %s = $%d", col, argPos)
		args = append(args, v)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteQuote(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const itemColumns = `id, quote_id, item_id, description, quantity, labour_hours, labour_rate,
       labour_total, metal_type, metal_karat, metal_grams, metal_price, metal_total,
       accessories, extras_total, unit_price, line_total, sort_order, created_at, updated_at`

func (r *repository) ListItems(ctx context.Context, quoteID int64) ([]QuoteItem, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM quote_items WHERE quote_id = $1 ORDER BY sort_order, id`, itemColumns), quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []QuoteItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *repository) GetItem(ctx context.Context, quoteID, itemID int64) (*QuoteItem, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM quote_items WHERE quote_id = $1 AND id = $2`, itemColumns), quoteID, itemID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) InsertItem(ctx context.Context, item QuoteItem) (int64, error) {
	accessories, err := json.Marshal(item.Accessories)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO quote_items (quote_id, item_id, description, quantity, labour_hours,
		                         labour_rate, labour_total, metal_type, metal_karat, metal_grams,
		                         metal_price, metal_total, accessories, extras_total, unit_price,
		                         line_total, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`, item.QuoteID, item.ItemID, item.Description, item.Quantity, item.LabourHours,
		item.LabourRate, item.LabourTotal, item.MetalType, item.MetalKarat, item.MetalGrams,
		item.MetalPrice, item.MetalTotal, accessories, item.ExtrasTotal, item.UnitPrice,
		item.LineTotal, item.SortOrder).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateItem(ctx context.Context, item QuoteItem) error {
	accessories, err := json.Marshal(item.Accessories)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE quote_items
		SET item_id = $1, description = $2, quantity = $3, labour_hours = $4, labour_rate = $5,
		    labour_total = $6, metal_type = $7, metal_karat = $8, metal_grams = $9,
		    metal_price = $10, metal_total = $11, accessories = $12, extras_total = $13,
		    unit_price = $14, line_total = $15, updated_at = NOW()
		WHERE quote_id = $16 AND id = $17
	`, item.ItemID, item.Description, item.Quantity, item.LabourHours, item.LabourRate,
		item.LabourTotal, item.MetalType, item.MetalKarat, item.MetalGrams,
		item.MetalPrice, item.MetalTotal, accessories, item.ExtrasTotal,
		item.UnitPrice, item.LineTotal, item.QuoteID, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteItem(ctx context.Context, quoteID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1 AND id = $2`, quoteID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) MaxSortOrder(ctx context.Context, quoteID int64) (int, error) {
	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM quote_items WHERE quote_id = $1`, quoteID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}

// InsertVersion appends a snapshot. A duplicate (quote_id, version_num) is
// reported as SnapshotSkippedDuplicate, never as an error: version history is
// best effort and must not block the primary write. ON CONFLICT DO NOTHING
// rather than error-swallowing, because a unique violation would abort the
// enclosing transaction.
func (r *repository) InsertVersion(ctx context.Context, v QuoteVersion) (SnapshotOutcome, error) {
	snapshot, err := json.Marshal(v.Snapshot)
	if err != nil {
		return SnapshotSkippedDuplicate, err
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO quote_versions (quote_id, version_num, snapshot, change_note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (quote_id, version_num) DO NOTHING
	`, v.QuoteID, v.VersionNum, snapshot, v.ChangeNote)
	if err != nil {
		return SnapshotSkippedDuplicate, err
	}
	if tag.RowsAffected() == 0 {
		return SnapshotSkippedDuplicate, nil
	}
	return SnapshotPersisted, nil
}

func (r *repository) ListVersions(ctx context.Context, quoteID int64, limit int) ([]QuoteVersion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, quote_id, version_num, snapshot, change_note, created_at
		FROM quote_versions
		WHERE quote_id = $1
		ORDER BY version_num DESC
		LIMIT $2
	`, quoteID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []QuoteVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

func (r *repository) GetVersion(ctx context.Context, quoteID int64, versionNum int) (*QuoteVersion, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, quote_id, version_num, snapshot, change_note, created_at
		FROM quote_versions
		WHERE quote_id = $1 AND version_num = $2
	`, quoteID, versionNum)
	v, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	var breakdown []byte
	err := row.Scan(&q.ID, &q.Number, &q.CustomerID, &q.Status, &q.Subtotal, &q.MarkupPct,
		&q.MarkupAmount, &q.Discount, &q.Total, &q.Notes, &q.ValidUntil, &q.Version,
		&breakdown, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		var b CostBreakdown
		if err := json.Unmarshal(breakdown, &b); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		q.Breakdown = &b
	}
	return &q, nil
}

func scanItem(row pgx.Row) (*QuoteItem, error) {
	var item QuoteItem
	var accessories []byte
	err := row.Scan(&item.ID, &item.QuoteID, &item.ItemID, &item.Description, &item.Quantity,
		&item.LabourHours, &item.LabourRate, &item.LabourTotal, &item.MetalType,
		&item.MetalKarat, &item.MetalGrams, &item.MetalPrice, &item.MetalTotal,
		&accessories, &item.ExtrasTotal, &item.UnitPrice, &item.LineTotal,
		&item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(accessories) > 0 {
		if err := json.Unmarshal(accessories, &item.Accessories); err != nil {
			return nil, fmt.Errorf("decode accessories: %w", err)
		}
	}
	return &item, nil
}

func scanVersion(row pgx.Row) (*QuoteVersion, error) {
	var v QuoteVersion
	var snapshot []byte
	err := row.Scan(&v.ID, &v.QuoteID, &v.VersionNum, &snapshot, &v.ChangeNote, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &v.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &v, nil
}

func marshalBreakdown(b *CostBreakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	return data, nil
}
