package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumworks/aurum/internal/customers"
	"github.com/aurumworks/aurum/internal/quotes"
)

func TestMoney(t *testing.T) {
	assert.Contains(t, Money("ZAR", 15250), "15,250.00")
	usd := Money("USD", 1000.5)
	assert.Contains(t, usd, "$")
	assert.Contains(t, usd, "1,000.50")
	// Unknown code falls back to a plain prefix.
	assert.Equal(t, "?? 12.00", Money("??", 12))
}

func TestRenderQuoteHTML(t *testing.T) {
	notes := "Matte finish, size P"
	until := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	email := "thandi@example.com"
	q := &quotes.Quote{
		Number:       "Q2026-0042",
		Status:       quotes.QuoteStatusSent,
		Subtotal:     17280,
		MarkupPct:    30,
		MarkupAmount: 5184,
		Discount:     100,
		Total:        22364,
		Notes:        &notes,
		ValidUntil:   &until,
		CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Items: []quotes.QuoteItem{{
			Description: "Rose gold band",
			Quantity:    2,
			LabourTotal: 800,
			MetalTotal:  7500,
			ExtrasTotal: 340,
			UnitPrice:   8640,
			LineTotal:   17280,
		}},
	}
	customer := &customers.Customer{Name: "Thandi Nkosi", Email: &email}

	doc := BuildQuoteDocument(q, customer, StudioInfo{Name: "Aurum Works"}, "USD")
	html, err := RenderQuoteHTML(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "Q2026-0042")
	assert.Contains(t, html, "Thandi Nkosi")
	assert.Contains(t, html, "Rose gold band")
	assert.Contains(t, html, "$22,364.00")
	assert.Contains(t, html, "Matte finish")
	assert.Contains(t, html, "Valid until: 15 October 2026")
}

func TestBuildQuoteDocumentDerivesExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	q := &quotes.Quote{
		Number:     "Q2026-0001",
		Status:     quotes.QuoteStatusSent,
		ValidUntil: &past,
		CreatedAt:  time.Now().Add(-30 * 24 * time.Hour),
	}
	doc := BuildQuoteDocument(q, nil, StudioInfo{Name: "Aurum Works"}, "ZAR")
	assert.Equal(t, "EXPIRED", doc.Status)
}

func TestRenderQuoteHTMLEscapes(t *testing.T) {
	q := &quotes.Quote{
		Number:    "Q2026-0002",
		Status:    quotes.QuoteStatusDraft,
		CreatedAt: time.Now(),
		Items: []quotes.QuoteItem{{
			Description: `<script>alert("x")</script>`,
			Quantity:    1,
		}},
	}
	html, err := RenderQuoteHTML(BuildQuoteDocument(q, nil, StudioInfo{}, "ZAR"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>alert"))
}
