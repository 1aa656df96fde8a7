package settings

import "time"

// Setting is one studio-wide key/value pair. Values are stored as text;
// typed access lives on the service.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Keys the rest of the system reads. Unknown keys are allowed; these are the
// ones with behaviour attached.
const (
	KeyDefaultLabourRate = "default_labour_rate"
	KeyDefaultMarkupPct  = "default_markup_pct"
	KeyStudioName        = "studio_name"
	KeyStudioAddress     = "studio_address"
	KeyStudioPhone       = "studio_phone"
	KeyStudioEmail       = "studio_email"
	KeyQuoteFooter       = "quote_footer"
)
