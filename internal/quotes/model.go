package quotes

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "DRAFT"
	QuoteStatusSent      QuoteStatus = "SENT"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
	// QuoteStatusConverted is reserved for invoicing; nothing sets it
	// automatically yet.
	QuoteStatusConverted QuoteStatus = "CONVERTED"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted,
		QuoteStatusRejected, QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

// Quote is one jeweller-to-customer price proposal.
type Quote struct {
	ID           int64          `json:"id" db:"id"`
	Number       string         `json:"number" db:"number"`
	CustomerID   int64          `json:"customer_id" db:"customer_id"`
	Status       QuoteStatus    `json:"status" db:"status"`
	Subtotal     float64        `json:"subtotal" db:"subtotal"`
	MarkupPct    float64        `json:"markup_pct" db:"markup_pct"`
	MarkupAmount float64        `json:"markup_amount" db:"markup_amount"`
	Discount     float64        `json:"discount" db:"discount"`
	Total        float64        `json:"total" db:"total"`
	Notes        *string        `json:"notes,omitempty" db:"notes"`
	ValidUntil   *time.Time     `json:"valid_until,omitempty" db:"valid_until"`
	Version      int            `json:"version" db:"version"`
	Breakdown    *CostBreakdown `json:"breakdown,omitempty" db:"breakdown"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	Items        []QuoteItem    `json:"items,omitempty" db:"-"`
}

// EffectiveStatus derives the display status: a SENT quote whose validity
// date has passed reads as EXPIRED without changing the persisted status.
func (q *Quote) EffectiveStatus(now time.Time) QuoteStatus {
	if q.Status == QuoteStatusSent && q.ValidUntil != nil && q.ValidUntil.Before(now) {
		return QuoteStatusExpired
	}
	return q.Status
}

// Accessory is one finding or add-on priced into a quote line.
type Accessory struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// QuoteItem is one priced line within a quote. Metal price is captured at
// entry time, never live-linked, so a committed quote does not drift as spot
// prices move.
type QuoteItem struct {
	ID          int64       `json:"id" db:"id"`
	QuoteID     int64       `json:"quote_id" db:"quote_id"`
	ItemID      *int64      `json:"item_id,omitempty" db:"item_id"`
	Description string      `json:"description" db:"description"`
	Quantity    int         `json:"quantity" db:"quantity"`
	LabourHours float64     `json:"labour_hours" db:"labour_hours"`
	LabourRate  float64     `json:"labour_rate" db:"labour_rate"`
	LabourTotal float64     `json:"labour_total" db:"labour_total"`
	MetalType   *string     `json:"metal_type,omitempty" db:"metal_type"`
	MetalKarat  *int        `json:"metal_karat,omitempty" db:"metal_karat"`
	MetalGrams  float64     `json:"metal_grams" db:"metal_grams"`
	MetalPrice  float64     `json:"metal_price" db:"metal_price"`
	MetalTotal  float64     `json:"metal_total" db:"metal_total"`
	Accessories []Accessory `json:"accessories,omitempty" db:"accessories"`
	ExtrasTotal float64     `json:"extras_total" db:"extras_total"`
	UnitPrice   float64     `json:"unit_price" db:"unit_price"`
	LineTotal   float64     `json:"line_total" db:"line_total"`
	SortOrder   int         `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// QuoteSnapshot is the field set captured into a version entry. Restore only
// applies the aggregate pricing subset; the rest is kept for the audit view.
type QuoteSnapshot struct {
	Number       string         `json:"number"`
	CustomerID   int64          `json:"customer_id"`
	Status       QuoteStatus    `json:"status"`
	Subtotal     float64        `json:"subtotal"`
	MarkupPct    float64        `json:"markup_pct"`
	MarkupAmount float64        `json:"markup_amount"`
	Discount     float64        `json:"discount"`
	Total        float64        `json:"total"`
	Notes        *string        `json:"notes,omitempty"`
	ValidUntil   *time.Time     `json:"valid_until,omitempty"`
	Version      int            `json:"version"`
	Breakdown    *CostBreakdown `json:"breakdown,omitempty"`
}

// snapshotOf captures the quote's current aggregate state.
func snapshotOf(q *Quote) QuoteSnapshot {
	return QuoteSnapshot{
		Number:       q.Number,
		CustomerID:   q.CustomerID,
		Status:       q.Status,
		Subtotal:     q.Subtotal,
		MarkupPct:    q.MarkupPct,
		MarkupAmount: q.MarkupAmount,
		Discount:     q.Discount,
		Total:        q.Total,
		Notes:        q.Notes,
		ValidUntil:   q.ValidUntil,
		Version:      q.Version,
		Breakdown:    q.Breakdown,
	}
}

// QuoteVersion is an immutable point-in-time snapshot, keyed by
// (quote_id, version_num).
type QuoteVersion struct {
	ID         int64         `json:"id" db:"id"`
	QuoteID    int64         `json:"quote_id" db:"quote_id"`
	VersionNum int           `json:"version_num" db:"version_num"`
	Snapshot   QuoteSnapshot `json:"snapshot" db:"snapshot"`
	ChangeNote *string       `json:"change_note,omitempty" db:"change_note"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// SnapshotOutcome reports what happened to a best-effort version write.
type SnapshotOutcome int

const (
	// SnapshotPersisted means the version row was written.
	SnapshotPersisted SnapshotOutcome = iota
	// SnapshotSkippedDuplicate means a row already existed at that
	// (quote, version) key; the write was dropped and the caller's primary
	// operation proceeds.
	SnapshotSkippedDuplicate
)
