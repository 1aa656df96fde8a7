package catalog

import "time"

// Category groups catalog items (rings, chains, findings).
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Item is a reusable piece template. Quote lines may reference an item to
// prefill their fields; the line keeps its own copy afterwards.
type Item struct {
	ID          int64     `json:"id" db:"id"`
	CategoryID  *int64    `json:"category_id,omitempty" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	LabourHours float64   `json:"labour_hours" db:"labour_hours"`
	MetalType   *string   `json:"metal_type,omitempty" db:"metal_type"`
	MetalKarat  *int      `json:"metal_karat,omitempty" db:"metal_karat"`
	MetalGrams  float64   `json:"metal_grams" db:"metal_grams"`
	BasePrice   float64   `json:"base_price" db:"base_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateItemRequest struct {
	CategoryID  *int64   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description,omitempty"`
	LabourHours *float64 `json:"labour_hours,omitempty" validate:"omitempty,gte=0"`
	MetalType   *string  `json:"metal_type,omitempty"`
	MetalKarat  *int     `json:"metal_karat,omitempty" validate:"omitempty,gte=0"`
	MetalGrams  *float64 `json:"metal_grams,omitempty" validate:"omitempty,gte=0"`
	BasePrice   *float64 `json:"base_price,omitempty" validate:"omitempty,gte=0"`
}

type UpdateItemRequest struct {
	CategoryID  *int64   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	LabourHours *float64 `json:"labour_hours,omitempty" validate:"omitempty,gte=0"`
	MetalType   *string  `json:"metal_type,omitempty"`
	MetalKarat  *int     `json:"metal_karat,omitempty" validate:"omitempty,gte=0"`
	MetalGrams  *float64 `json:"metal_grams,omitempty" validate:"omitempty,gte=0"`
	BasePrice   *float64 `json:"base_price,omitempty" validate:"omitempty,gte=0"`
}

type ListItemsRequest struct {
	CategoryID *int64 `json:"category_id,omitempty"`
	Search     string `json:"search"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}
