package quotes

import "time"

type CreateQuoteRequest struct {
	CustomerID int64      `json:"customer_id" validate:"required,gt=0"`
	MarkupPct  *float64   `json:"markup_pct,omitempty" validate:"omitempty,gte=0"`
	Discount   *float64   `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Notes      *string    `json:"notes,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	// Pages that price holistically submit their derived numbers wholesale.
	Subtotal     *float64       `json:"subtotal,omitempty" validate:"omitempty,gte=0"`
	MarkupAmount *float64       `json:"markup_amount,omitempty" validate:"omitempty,gte=0"`
	Total        *float64       `json:"total,omitempty" validate:"omitempty,gte=0"`
	Breakdown    *CostBreakdown `json:"breakdown,omitempty"`
}

// UpdateQuoteRequest carries a partial update; nil fields keep their stored
// values. Totals here deliberately overwrite the recomputed ones when
// supplied; the holistic UI flow persists final numbers directly.
type UpdateQuoteRequest struct {
	MarkupPct    *float64       `json:"markup_pct,omitempty" validate:"omitempty,gte=0"`
	Discount     *float64       `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Notes        *string        `json:"notes,omitempty"`
	ValidUntil   *time.Time     `json:"valid_until,omitempty"`
	Subtotal     *float64       `json:"subtotal,omitempty" validate:"omitempty,gte=0"`
	MarkupAmount *float64       `json:"markup_amount,omitempty" validate:"omitempty,gte=0"`
	Total        *float64       `json:"total,omitempty" validate:"omitempty,gte=0"`
	Breakdown    *CostBreakdown `json:"breakdown,omitempty"`
	ChangeNote   *string        `json:"change_note,omitempty"`
}

type UpdateStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required"`
}

type AccessoryRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type AddItemRequest struct {
	ItemID      *int64             `json:"item_id,omitempty" validate:"omitempty,gt=0"`
	Description string             `json:"description" validate:"required"`
	Quantity    *int               `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	LabourHours *float64           `json:"labour_hours,omitempty" validate:"omitempty,gte=0"`
	LabourRate  *float64           `json:"labour_rate,omitempty" validate:"omitempty,gte=0"`
	MetalType   *string            `json:"metal_type,omitempty"`
	MetalKarat  *int               `json:"metal_karat,omitempty" validate:"omitempty,gte=0"`
	MetalGrams  *float64           `json:"metal_grams,omitempty" validate:"omitempty,gte=0"`
	MetalPrice  *float64           `json:"metal_price,omitempty" validate:"omitempty,gte=0"`
	Accessories []AccessoryRequest `json:"accessories,omitempty" validate:"omitempty,dive"`
}

// UpdateItemRequest mirrors AddItemRequest with partial semantics: omitted
// fields default to the line's stored values. Metal price in particular is
// never recomputed from a rate table; it carries forward unless explicitly
// overridden.
type UpdateItemRequest struct {
	ItemID      *int64             `json:"item_id,omitempty" validate:"omitempty,gt=0"`
	Description *string            `json:"description,omitempty"`
	Quantity    *int               `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	LabourHours *float64           `json:"labour_hours,omitempty" validate:"omitempty,gte=0"`
	LabourRate  *float64           `json:"labour_rate,omitempty" validate:"omitempty,gte=0"`
	MetalType   *string            `json:"metal_type,omitempty"`
	MetalKarat  *int               `json:"metal_karat,omitempty" validate:"omitempty,gte=0"`
	MetalGrams  *float64           `json:"metal_grams,omitempty" validate:"omitempty,gte=0"`
	MetalPrice  *float64           `json:"metal_price,omitempty" validate:"omitempty,gte=0"`
	Accessories *[]AccessoryRequest `json:"accessories,omitempty" validate:"omitempty,dive"`
}

type ListQuotesRequest struct {
	CustomerID *int64       `json:"customer_id,omitempty"`
	Status     *QuoteStatus `json:"status,omitempty"`
	Limit      int          `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int          `json:"offset" validate:"gte=0"`
}
