package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var (
	// ErrValidation marks caller input the service refuses outright.
	ErrValidation = fmt.Errorf("quote: %w", httpx.ErrValidation)
)

// Settings keys and hard fallbacks for studio-wide defaults.
const (
	settingLabourRate = "default_labour_rate"
	settingMarkupPct  = "default_markup_pct"

	fallbackLabourRate = 350
	fallbackMarkupPct  = 30
)

// CustomerDirectory is the slice of the customer module the quote core needs.
type CustomerDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Defaults resolves studio-wide default values from the settings store.
type Defaults interface {
	Float(ctx context.Context, key string, fallback float64) float64
}

type Service struct {
	repo      Repository
	customers CustomerDirectory
	defaults  Defaults
}

func NewService(repo Repository, customers CustomerDirectory, defaults Defaults) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		defaults:  defaults,
	}
}

// Create opens a new DRAFT quote for a customer. The year-scoped number comes
// from an atomic sequence; totals start at zero unless the caller priced the
// quote client-side and submitted the final numbers.
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	exists, err := s.customers.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: customer %d does not exist", ErrValidation, req.CustomerID)
	}

	markupPct := s.defaults.Float(ctx, settingMarkupPct, fallbackMarkupPct)
	if req.MarkupPct != nil {
		markupPct = *req.MarkupPct
	}

	quote := Quote{
		CustomerID: req.CustomerID,
		Status:     QuoteStatusDraft,
		MarkupPct:  markupPct,
		Notes:      req.Notes,
		ValidUntil: req.ValidUntil,
		Version:    1,
		Breakdown:  req.Breakdown,
	}
	if req.Discount != nil {
		quote.Discount = *req.Discount
	}
	if req.Subtotal != nil {
		quote.Subtotal = *req.Subtotal
	}
	if req.MarkupAmount != nil {
		quote.MarkupAmount = *req.MarkupAmount
	}
	if req.Total != nil {
		quote.Total = *req.Total
	}

	var quoteID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		year := time.Now().Year()
		seq, err := repo.NextSequence(ctx, year)
		if err != nil {
			return fmt.Errorf("next quote sequence: %w", err)
		}
		quote.Number = FormatNumber(year, seq)

		quoteID, err = repo.CreateQuote(ctx, quote)
		if err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, quoteID)
}

// FormatNumber renders the human-facing quote number. Other systems parse
// this format; keep it stable.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("Q%d-%04d", year, seq)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quote, error) {
	return s.repo.GetQuote(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.ListQuotes(ctx, req)
}

// Update applies a direct partial edit. The pre-update state is snapshotted
// best-effort at the current version number, then only the supplied fields
// are written and the version counter increments. Totals supplied here
// overwrite the stored ones; this path never recomputes from line items.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuoteRequest) (*Quote, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetQuote(ctx, id)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		s.snapshot(ctx, repo, existing, req.ChangeNote)

		updates := map[string]interface{}{
			"version": existing.Version + 1,
		}
		if req.MarkupPct != nil {
			updates["markup_pct"] = *req.MarkupPct
		}
		if req.Discount != nil {
			updates["discount"] = *req.Discount
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		if req.ValidUntil != nil {
			updates["valid_until"] = *req.ValidUntil
		}
		if req.Subtotal != nil {
			updates["subtotal"] = *req.Subtotal
		}
		if req.MarkupAmount != nil {
			updates["markup_amount"] = *req.MarkupAmount
		}
		if req.Total != nil {
			updates["total"] = *req.Total
		}
		if req.Breakdown != nil {
			updates["breakdown"] = req.Breakdown
		}

		if err := repo.UpdateQuote(ctx, id, updates); err != nil {
			return fmt.Errorf("update quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, id)
}

// UpdateStatus sets the quote status. Transitions are deliberately
// unrestricted; the status change runs through the same snapshot-then-bump
// protocol as any other direct edit.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status QuoteStatus) (*Quote, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetQuote(ctx, id)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		note := fmt.Sprintf("Status changed to %s", status)
		s.snapshot(ctx, repo, existing, &note)

		return repo.UpdateQuote(ctx, id, map[string]interface{}{
			"status":  status,
			"version": existing.Version + 1,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, id)
}

// Delete removes the quote; line items and version history go with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.DeleteQuote(ctx, id)
	})
}

// Duplicate copies a quote into a fresh DRAFT: new number, validity cleared,
// notes prefixed with the source number, every line deep-copied. Version
// history stays with the original.
func (s *Service) Duplicate(ctx context.Context, id int64) (*Quote, error) {
	var newID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		src, err := repo.GetQuote(ctx, id)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		year := time.Now().Year()
		seq, err := repo.NextSequence(ctx, year)
		if err != nil {
			return fmt.Errorf("next quote sequence: %w", err)
		}

		notes := fmt.Sprintf("Copy of %s", src.Number)
		if src.Notes != nil && strings.TrimSpace(*src.Notes) != "" {
			notes = notes + "\n" + *src.Notes
		}

		copy := Quote{
			Number:       FormatNumber(year, seq),
			CustomerID:   src.CustomerID,
			Status:       QuoteStatusDraft,
			Subtotal:     src.Subtotal,
			MarkupPct:    src.MarkupPct,
			MarkupAmount: src.MarkupAmount,
			Discount:     src.Discount,
			Total:        src.Total,
			Notes:        &notes,
			Version:      1,
			Breakdown:    src.Breakdown,
		}
		newID, err = repo.CreateQuote(ctx, copy)
		if err != nil {
			return fmt.Errorf("create quote copy: %w", err)
		}

		for _, item := range src.Items {
			line := item
			line.ID = 0
			line.QuoteID = newID
			if _, err := repo.InsertItem(ctx, line); err != nil {
				return fmt.Errorf("copy quote item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, newID)
}

// Restore rolls the quote's aggregate pricing fields back to a recorded
// version. The current state is snapshotted first, so restores are themselves
// undoable. Line items are untouched: this is a partial, aggregate-level
// rollback only.
func (s *Service) Restore(ctx context.Context, id int64, versionNum int) (*Quote, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetQuote(ctx, id)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		target, err := repo.GetVersion(ctx, id, versionNum)
		if err != nil {
			return fmt.Errorf("get version %d: %w", versionNum, err)
		}

		note := fmt.Sprintf("Restored to version %d", versionNum)
		s.snapshot(ctx, repo, existing, &note)

		// Notes are part of the captured subset, so a snapshot without
		// notes clears them on the way back.
		snap := target.Snapshot
		updates := map[string]interface{}{
			"markup_pct":    snap.MarkupPct,
			"discount":      snap.Discount,
			"subtotal":      snap.Subtotal,
			"markup_amount": snap.MarkupAmount,
			"total":         snap.Total,
			"notes":         snap.Notes,
			"version":       existing.Version + 1,
		}

		if err := repo.UpdateQuote(ctx, id, updates); err != nil {
			return fmt.Errorf("apply version %d: %w", versionNum, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, id)
}

func (s *Service) ListVersions(ctx context.Context, quoteID int64, limit int) ([]QuoteVersion, error) {
	if _, err := s.repo.GetQuote(ctx, quoteID); err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListVersions(ctx, quoteID, limit)
}

func (s *Service) GetVersion(ctx context.Context, quoteID int64, versionNum int) (*QuoteVersion, error) {
	return s.repo.GetVersion(ctx, quoteID, versionNum)
}

// snapshot writes the pre-mutation state at the quote's current version
// number. Best effort: duplicates and write failures never block the primary
// operation.
func (s *Service) snapshot(ctx context.Context, repo Repository, q *Quote, note *string) SnapshotOutcome {
	if q.Version < 1 {
		return SnapshotSkippedDuplicate
	}
	outcome, err := repo.InsertVersion(ctx, QuoteVersion{
		QuoteID:    q.ID,
		VersionNum: q.Version,
		Snapshot:   snapshotOf(q),
		ChangeNote: note,
	})
	if err != nil {
		return SnapshotSkippedDuplicate
	}
	return outcome
}
