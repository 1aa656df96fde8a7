package quotes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	quotes      map[int64]*Quote
	items       map[int64][]QuoteItem
	versions    map[int64][]QuoteVersion
	sequences   map[int]int
	nextQuoteID int64
	nextItemID  int64

	// Error injection
	txError            error
	insertVersionError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotes:      make(map[int64]*Quote),
		items:       make(map[int64][]QuoteItem),
		versions:    make(map[int64][]QuoteVersion),
		sequences:   make(map[int]int),
		nextQuoteID: 1,
		nextItemID:  1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, m)
}

func (m *mockRepository) GetQuote(ctx context.Context, id int64) (*Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *q
	out.Items = append([]QuoteItem(nil), m.items[id]...)
	return &out, nil
}

func (m *mockRepository) ListQuotes(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	var result []Quote
	for _, q := range m.quotes {
		if req.CustomerID != nil && q.CustomerID != *req.CustomerID {
			continue
		}
		if req.Status != nil && q.Status != *req.Status {
			continue
		}
		result = append(result, *q)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

func (m *mockRepository) NextSequence(ctx context.Context, year int) (int, error) {
	m.sequences[year]++
	return m.sequences[year], nil
}

func (m *mockRepository) CreateQuote(ctx context.Context, q Quote) (int64, error) {
	q.ID = m.nextQuoteID
	m.nextQuoteID++
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	m.quotes[q.ID] = &q
	return q.ID, nil
}

func (m *mockRepository) UpdateQuote(ctx context.Context, id int64, updates map[string]interface{}) error {
	q, ok := m.quotes[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "customer_id":
			q.CustomerID = v.(int64)
		case "status":
			q.Status = v.(QuoteStatus)
		case "subtotal":
			q.Subtotal = v.(float64)
		case "markup_pct":
			q.MarkupPct = v.(float64)
		case "markup_amount":
			q.MarkupAmount = v.(float64)
		case "discount":
			q.Discount = v.(float64)
		case "total":
			q.Total = v.(float64)
		case "notes":
			switch notes := v.(type) {
			case string:
				q.Notes = &notes
			case *string:
				q.Notes = notes
			default:
				return fmt.Errorf("unexpected notes type %T", v)
			}
		case "valid_until":
			until := v.(time.Time)
			q.ValidUntil = &until
		case "version":
			q.Version = v.(int)
		case "breakdown":
			q.Breakdown = v.(*CostBreakdown)
		default:
			return fmt.Errorf("unexpected update column %q", col)
		}
	}
	q.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) DeleteQuote(ctx context.Context, id int64) error {
	if _, ok := m.quotes[id]; !ok {
		return ErrNotFound
	}
	delete(m.quotes, id)
	delete(m.items, id)
	delete(m.versions, id)
	return nil
}

func (m *mockRepository) ListItems(ctx context.Context, quoteID int64) ([]QuoteItem, error) {
	return append([]QuoteItem(nil), m.items[quoteID]...), nil
}

func (m *mockRepository) GetItem(ctx context.Context, quoteID, itemID int64) (*QuoteItem, error) {
	for _, item := range m.items[quoteID] {
		if item.ID == itemID {
			out := item
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) InsertItem(ctx context.Context, item QuoteItem) (int64, error) {
	item.ID = m.nextItemID
	m.nextItemID++
	m.items[item.QuoteID] = append(m.items[item.QuoteID], item)
	return item.ID, nil
}

func (m *mockRepository) UpdateItem(ctx context.Context, item QuoteItem) error {
	list := m.items[item.QuoteID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = item
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepository) DeleteItem(ctx context.Context, quoteID, itemID int64) error {
	list := m.items[quoteID]
	for i := range list {
		if list[i].ID == itemID {
			m.items[quoteID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepository) MaxSortOrder(ctx context.Context, quoteID int64) (int, error) {
	max := 0
	for _, item := range m.items[quoteID] {
		if item.SortOrder > max {
			max = item.SortOrder
		}
	}
	return max, nil
}

func (m *mockRepository) InsertVersion(ctx context.Context, v QuoteVersion) (SnapshotOutcome, error) {
	if m.insertVersionError != nil {
		return SnapshotSkippedDuplicate, m.insertVersionError
	}
	for _, existing := range m.versions[v.QuoteID] {
		if existing.VersionNum == v.VersionNum {
			return SnapshotSkippedDuplicate, nil
		}
	}
	v.ID = int64(len(m.versions[v.QuoteID]) + 1)
	v.CreatedAt = time.Now()
	m.versions[v.QuoteID] = append(m.versions[v.QuoteID], v)
	return SnapshotPersisted, nil
}

func (m *mockRepository) ListVersions(ctx context.Context, quoteID int64, limit int) ([]QuoteVersion, error) {
	result := append([]QuoteVersion(nil), m.versions[quoteID]...)
	sort.Slice(result, func(i, j int) bool { return result[i].VersionNum > result[j].VersionNum })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockRepository) GetVersion(ctx context.Context, quoteID int64, versionNum int) (*QuoteVersion, error) {
	for _, v := range m.versions[quoteID] {
		if v.VersionNum == versionNum {
			out := v
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

type mockCustomers struct {
	existing map[int64]bool
}

func (m *mockCustomers) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existing[id], nil
}

type mockDefaults struct {
	values map[string]float64
}

func (m *mockDefaults) Float(ctx context.Context, key string, fallback float64) float64 {
	if v, ok := m.values[key]; ok {
		return v
	}
	return fallback
}

func newTestService(repo *mockRepository, defaults map[string]float64) *Service {
	return NewService(repo,
		&mockCustomers{existing: map[int64]bool{1: true, 2: true}},
		&mockDefaults{values: defaults},
	)
}

// ============================================================================
// QUOTE AGGREGATE
// ============================================================================

func TestCreateQuote(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, map[string]float64{settingMarkupPct: 40})

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("Q%d-0001", year), quote.Number)
	assert.Equal(t, QuoteStatusDraft, quote.Status)
	assert.Equal(t, 40.0, quote.MarkupPct)
	assert.Equal(t, 1, quote.Version)
	assert.Zero(t, quote.Subtotal)
	assert.Zero(t, quote.Total)
	assert.Empty(t, repo.versions[quote.ID])
}

func TestCreateQuoteMarkupFallback(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, float64(fallbackMarkupPct), quote.MarkupPct)
}

func TestCreateQuoteUnknownCustomer(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 99})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQuoteNumbersIncrement(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	first, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 2})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("Q%d-0001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("Q%d-0002", year), second.Number)
}

func TestUpdateQuoteSnapshotsAndBumpsVersion(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	markup := 50.0
	note := "raised markup"
	updated, err := svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		MarkupPct:  &markup,
		ChangeNote: &note,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, updated.MarkupPct)
	assert.Equal(t, 2, updated.Version)

	versions := repo.versions[quote.ID]
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNum)
	assert.Equal(t, quote.MarkupPct, versions[0].Snapshot.MarkupPct)
	require.NotNil(t, versions[0].ChangeNote)
	assert.Equal(t, note, *versions[0].ChangeNote)
}

func TestUpdateQuoteDoesNotRecomputeTotals(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "band", LabourHours: ptr(2.0), LabourRate: ptr(400.0),
	})
	require.NoError(t, err)

	// A direct edit with explicit totals wins over anything derivable from
	// the lines.
	updated, err := svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		Subtotal: ptr(9999.0),
		Total:    ptr(12000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 9999.0, updated.Subtotal)
	assert.Equal(t, 12000.0, updated.Total)
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), quote.ID, QuoteStatusSent)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusSent, updated.Status)
	assert.Equal(t, 2, updated.Version)

	versions := repo.versions[quote.ID]
	require.Len(t, versions, 1)
	assert.Equal(t, QuoteStatusDraft, versions[0].Snapshot.Status)
	require.NotNil(t, versions[0].ChangeNote)
	assert.Equal(t, "Status changed to SENT", *versions[0].ChangeNote)

	// Any known status is reachable from any other.
	_, err = svc.UpdateStatus(context.Background(), quote.ID, QuoteStatusDraft)
	require.NoError(t, err)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), quote.ID, QuoteStatus("PENDING"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEffectiveStatusDerivesExpired(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	q := Quote{Status: QuoteStatusSent, ValidUntil: &past}
	assert.Equal(t, QuoteStatusExpired, q.EffectiveStatus(time.Now()))

	q.ValidUntil = &future
	assert.Equal(t, QuoteStatusSent, q.EffectiveStatus(time.Now()))

	// Only SENT derives EXPIRED.
	accepted := Quote{Status: QuoteStatusAccepted, ValidUntil: &past}
	assert.Equal(t, QuoteStatusAccepted, accepted.EffectiveStatus(time.Now()))
}

func TestDeleteQuote(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), quote.ID))
	_, err = svc.Get(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), quote.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// LINE ITEMS
// ============================================================================

func TestAddItemPricesAndRecomputes(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	discount := 100.0
	_, err = svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{Discount: &discount})
	require.NoError(t, err)

	updated, err := svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "rose gold band",
		Quantity:    ptr(2),
		LabourHours: ptr(2.0),
		LabourRate:  ptr(400.0),
		MetalGrams:  ptr(5.0),
		MetalPrice:  ptr(1500.0),
		Accessories: []AccessoryRequest{{Name: "engraving", Price: 340}},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	line := updated.Items[0]
	assert.Equal(t, 800.0, line.LabourTotal)
	assert.Equal(t, 7500.0, line.MetalTotal)
	assert.Equal(t, 340.0, line.ExtrasTotal)
	assert.Equal(t, 8640.0, line.UnitPrice)
	assert.Equal(t, 17280.0, line.LineTotal)
	assert.Equal(t, 1, line.SortOrder)

	// subtotal 17280, markup 30% = 5184, minus 100 discount
	assert.Equal(t, 17280.0, updated.Subtotal)
	assert.Equal(t, 5184.0, updated.MarkupAmount)
	assert.Equal(t, 22364.0, updated.Total)
}

func TestAddItemLabourRateDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, map[string]float64{settingLabourRate: 500})

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	updated, err := svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "resize", LabourHours: ptr(1.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.Items[0].LabourRate)

	// Without the setting, the hard fallback applies.
	bare := newTestService(repo, nil)
	quote2, err := bare.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	updated2, err := bare.AddItem(context.Background(), quote2.ID, AddItemRequest{
		Description: "resize", LabourHours: ptr(1.0),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(fallbackLabourRate), updated2.Items[0].LabourRate)
}

func TestAddItemValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{Description: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "band", Quantity: ptr(0),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddItemMissingQuote(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	_, err := svc.AddItem(context.Background(), 999, AddItemRequest{
		Description: "band", LabourHours: ptr(2.0),
	})
	require.ErrorIs(t, err, ErrNotFound)
	// No orphan line survives the failed add.
	assert.Empty(t, repo.items[999])

	_, err = svc.UpdateItem(context.Background(), 999, 1, UpdateItemRequest{
		Description: ptr("resize"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RemoveItem(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddItemDoesNotBumpVersion(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	updated, err := svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "band", LabourHours: ptr(1.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Empty(t, repo.versions[quote.ID])
}

func TestUpdateItemCarriesMetalPriceForward(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	withItem, err := svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "pendant",
		MetalGrams:  ptr(3.0),
		MetalPrice:  ptr(1200.0),
	})
	require.NoError(t, err)
	itemID := withItem.Items[0].ID

	// Changing grams alone must keep the captured price.
	updated, err := svc.UpdateItem(context.Background(), quote.ID, itemID, UpdateItemRequest{
		MetalGrams: ptr(4.0),
	})
	require.NoError(t, err)
	line := updated.Items[0]
	assert.Equal(t, 1200.0, line.MetalPrice)
	assert.Equal(t, 4800.0, line.MetalTotal)
	assert.Equal(t, 4800.0, updated.Subtotal)
}

func TestRemoveItemRecomputes(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	first, err := svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "band", LabourHours: ptr(2.0), LabourRate: ptr(400.0),
	})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "chain", MetalGrams: ptr(10.0), MetalPrice: ptr(900.0),
	})
	require.NoError(t, err)

	updated, err := svc.RemoveItem(context.Background(), quote.ID, first.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 9000.0, updated.Subtotal)
	assert.Equal(t, 9000.0*1.3, updated.Total)

	// Removing the last line zeroes the totals.
	final, err := svc.RemoveItem(context.Background(), quote.ID, updated.Items[0].ID)
	require.NoError(t, err)
	assert.Zero(t, final.Subtotal)
	assert.Zero(t, final.Total)
}

// ============================================================================
// DUPLICATE
// ============================================================================

func TestDuplicateQuote(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	until := time.Now().Add(14 * 24 * time.Hour)
	notes := "client prefers matte finish"
	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 1,
		Notes:      &notes,
		ValidUntil: &until,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "signet ring", LabourHours: ptr(3.0), LabourRate: ptr(400.0),
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), quote.ID, QuoteStatusSent)
	require.NoError(t, err)

	dup, err := svc.Duplicate(context.Background(), quote.ID)
	require.NoError(t, err)

	assert.NotEqual(t, quote.ID, dup.ID)
	assert.NotEqual(t, quote.Number, dup.Number)
	assert.Equal(t, QuoteStatusDraft, dup.Status)
	assert.Nil(t, dup.ValidUntil)
	assert.Equal(t, 1, dup.Version)
	require.NotNil(t, dup.Notes)
	assert.Contains(t, *dup.Notes, "Copy of "+quote.Number)
	assert.Contains(t, *dup.Notes, notes)

	// Lines deep-copied, totals carried over, history left behind.
	source, err := svc.Get(context.Background(), quote.ID)
	require.NoError(t, err)
	require.Len(t, dup.Items, 1)
	assert.NotEqual(t, source.Items[0].ID, dup.Items[0].ID)
	assert.Equal(t, source.Items[0].LineTotal, dup.Items[0].LineTotal)
	assert.Equal(t, source.Subtotal, dup.Subtotal)
	assert.Equal(t, source.Total, dup.Total)
	assert.Empty(t, repo.versions[dup.ID])
}

// ============================================================================
// VERSIONS AND RESTORE
// ============================================================================

func TestRestoreAppliesAggregateFieldsOnly(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), quote.ID, AddItemRequest{
		Description: "band", LabourHours: ptr(2.0), LabourRate: ptr(400.0),
	})
	require.NoError(t, err)

	// v1 snapshot is written by this edit.
	_, err = svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		MarkupPct: ptr(60.0),
		Discount:  ptr(250.0),
		Notes:     ptr("second pass"),
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), quote.ID, QuoteStatusSent)
	require.NoError(t, err)

	restored, err := svc.Restore(context.Background(), quote.ID, 1)
	require.NoError(t, err)

	// Aggregate pricing fields roll back to the v1 snapshot.
	assert.Equal(t, float64(fallbackMarkupPct), restored.MarkupPct)
	assert.Zero(t, restored.Discount)
	// Status is not part of the rollback set.
	assert.Equal(t, QuoteStatusSent, restored.Status)
	// Line items are untouched.
	require.Len(t, restored.Items, 1)
	// Restore is a versioned mutation itself: v3 was snapshotted, counter is 4.
	assert.Equal(t, 4, restored.Version)
	assert.Len(t, repo.versions[quote.ID], 3)
}

func TestRestoreClearsNotesMissingFromSnapshot(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	require.Nil(t, quote.Notes)

	_, err = svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		Notes: ptr("added later"),
	})
	require.NoError(t, err)

	restored, err := svc.Restore(context.Background(), quote.ID, 1)
	require.NoError(t, err)

	// The v1 snapshot carried no notes, so the rollback clears them.
	assert.Nil(t, restored.Notes)
}

func TestRestoreMissingVersion(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	_, err = svc.Restore(context.Background(), quote.ID, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotDuplicateSkipped(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	// A snapshot already sits at the current version number.
	stored, err := svc.Get(context.Background(), quote.ID)
	require.NoError(t, err)
	outcome, err := repo.InsertVersion(context.Background(), QuoteVersion{
		QuoteID:    quote.ID,
		VersionNum: stored.Version,
		Snapshot:   snapshotOf(stored),
	})
	require.NoError(t, err)
	require.Equal(t, SnapshotPersisted, outcome)

	// The edit still succeeds; the duplicate write is dropped.
	updated, err := svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		MarkupPct: ptr(45.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, repo.versions[quote.ID], 1)
}

func TestSnapshotFailureDoesNotBlockEdit(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)

	repo.insertVersionError = errors.New("version store down")
	updated, err := svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
		MarkupPct: ptr(45.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.MarkupPct)
	assert.Equal(t, 2, updated.Version)
}

func TestListVersionsNewestFirst(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 1})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{
			MarkupPct: ptr(30.0 + float64(i)),
		})
		require.NoError(t, err)
	}

	versions, err := svc.ListVersions(context.Background(), quote.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].VersionNum)
	assert.Equal(t, 1, versions[2].VersionNum)

	_, err = svc.ListVersions(context.Background(), 999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
