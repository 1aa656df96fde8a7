package quotes

import (
	"context"
	"fmt"
	"strings"
)

// AddItem appends a priced line to a quote and recomputes the parent totals
// from the full current line set, all inside one transaction.
func (s *Service) AddItem(ctx context.Context, quoteID int64, req AddItemRequest) (*Quote, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		quantity = *req.Quantity
	}

	labourRate := s.defaults.Float(ctx, settingLabourRate, fallbackLabourRate)
	if req.LabourRate != nil {
		labourRate = *req.LabourRate
	}

	item := QuoteItem{
		QuoteID:     quoteID,
		ItemID:      req.ItemID,
		Description: req.Description,
		Quantity:    quantity,
		LabourRate:  labourRate,
		MetalType:   req.MetalType,
		MetalKarat:  req.MetalKarat,
		Accessories: accessoriesFromRequest(req.Accessories),
	}
	if req.LabourHours != nil {
		item.LabourHours = *req.LabourHours
	}
	if req.MetalGrams != nil {
		item.MetalGrams = *req.MetalGrams
	}
	// Metal price is manual entry only. The live feed never prices a line,
	// so a committed quote can't drift with the spot market.
	if req.MetalPrice != nil {
		item.MetalPrice = *req.MetalPrice
	}
	item.LabourTotal, item.MetalTotal, item.ExtrasTotal, item.UnitPrice, item.LineTotal =
		priceItem(item.LabourHours, item.LabourRate, item.MetalGrams, item.MetalPrice, item.Accessories, item.Quantity)

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		quote, err := repo.GetQuote(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		maxOrder, err := repo.MaxSortOrder(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("max sort order: %w", err)
		}
		item.SortOrder = maxOrder + 1

		if _, err := repo.InsertItem(ctx, item); err != nil {
			return fmt.Errorf("insert quote item: %w", err)
		}

		return s.recomputeTotals(ctx, repo, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, quoteID)
}

// UpdateItem edits a line with partial semantics: omitted fields keep the
// stored values. Metal price in particular always carries forward unless the
// caller explicitly overrides it.
func (s *Service) UpdateItem(ctx context.Context, quoteID, itemID int64, req UpdateItemRequest) (*Quote, error) {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		quote, err := repo.GetQuote(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		item, err := repo.GetItem(ctx, quoteID, itemID)
		if err != nil {
			return fmt.Errorf("get quote item: %w", err)
		}

		if req.ItemID != nil {
			item.ItemID = req.ItemID
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.LabourHours != nil {
			item.LabourHours = *req.LabourHours
		}
		if req.LabourRate != nil {
			item.LabourRate = *req.LabourRate
		}
		if req.MetalType != nil {
			item.MetalType = req.MetalType
		}
		if req.MetalKarat != nil {
			item.MetalKarat = req.MetalKarat
		}
		if req.MetalGrams != nil {
			item.MetalGrams = *req.MetalGrams
		}
		if req.MetalPrice != nil {
			item.MetalPrice = *req.MetalPrice
		}
		if req.Accessories != nil {
			item.Accessories = accessoriesFromRequest(*req.Accessories)
		}

		item.LabourTotal, item.MetalTotal, item.ExtrasTotal, item.UnitPrice, item.LineTotal =
			priceItem(item.LabourHours, item.LabourRate, item.MetalGrams, item.MetalPrice, item.Accessories, item.Quantity)

		if err := repo.UpdateItem(ctx, *item); err != nil {
			return fmt.Errorf("update quote item: %w", err)
		}

		return s.recomputeTotals(ctx, repo, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, quoteID)
}

// RemoveItem deletes a line and recomputes the parent totals from the
// remaining lines.
func (s *Service) RemoveItem(ctx context.Context, quoteID, itemID int64) (*Quote, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		quote, err := repo.GetQuote(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}

		if err := repo.DeleteItem(ctx, quoteID, itemID); err != nil {
			return fmt.Errorf("delete quote item: %w", err)
		}

		return s.recomputeTotals(ctx, repo, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetQuote(ctx, quoteID)
}

// recomputeTotals overwrites the quote's aggregate pricing from the full
// current line set. This is the only path by which line-item edits reach the
// aggregate fields; direct quote updates never trigger it.
func (s *Service) recomputeTotals(ctx context.Context, repo Repository, quote *Quote) error {
	items, err := repo.ListItems(ctx, quote.ID)
	if err != nil {
		return fmt.Errorf("list quote items: %w", err)
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	markupAmount := subtotal * quote.MarkupPct / 100
	total := subtotal + markupAmount - quote.Discount

	if err := repo.UpdateQuote(ctx, quote.ID, map[string]interface{}{
		"subtotal":      subtotal,
		"markup_amount": markupAmount,
		"total":         total,
	}); err != nil {
		return fmt.Errorf("update quote totals: %w", err)
	}
	return nil
}

func accessoriesFromRequest(reqs []AccessoryRequest) []Accessory {
	if len(reqs) == 0 {
		return nil
	}
	accessories := make([]Accessory, 0, len(reqs))
	for _, a := range reqs {
		accessories = append(accessories, Accessory{Name: a.Name, Price: a.Price})
	}
	return accessories
}
