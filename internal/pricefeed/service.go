package pricefeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service fetches, stores and serves metal spot prices. Stored prices are
// reference data for the operator; quote lines always capture their metal
// price manually.
type Service struct {
	repo     Repository
	fetcher  Fetcher
	cache    *Cache
	logger   *slog.Logger
	metals   []string
	currency string

	group singleflight.Group
}

func NewService(repo Repository, fetcher Fetcher, cache *Cache, logger *slog.Logger, currency string) *Service {
	return &Service{
		repo:     repo,
		fetcher:  fetcher,
		cache:    cache,
		logger:   logger,
		metals:   DefaultMetals,
		currency: currency,
	}
}

// Refresh pulls spot prices for all tracked metals, stores one row each and
// updates the cache. Every run carries a uuid so log lines and stored rows
// correlate. Partial feed responses are fine; missing metals are skipped.
func (s *Service) Refresh(ctx context.Context) error {
	runID := uuid.NewString()
	prices, err := s.fetcher.Fetch(ctx, s.metals, s.currency)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	now := time.Now().UTC()
	stored := 0
	for _, metal := range s.metals {
		perGram, ok := prices[metal]
		if !ok {
			continue
		}
		p := MetalPrice{
			Metal:        metal,
			Currency:     s.currency,
			PricePerGram: perGram,
			RunID:        runID,
			FetchedAt:    now,
		}
		if err := s.repo.Insert(ctx, p); err != nil {
			return fmt.Errorf("store %s price: %w", metal, err)
		}
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.Warn("price cache write failed",
				slog.String("metal", metal),
				slog.Any("error", err))
		}
		stored++
	}

	s.logger.Info("metal prices refreshed",
		slog.String("run_id", runID),
		slog.Int("stored", stored),
		slog.Int("requested", len(s.metals)))
	return nil
}

// Latest returns the most recent stored price for one metal, cache first.
// Concurrent callers asking for the same metal share one lookup.
func (s *Service) Latest(ctx context.Context, metal string) (*MetalPrice, error) {
	if cached, err := s.cache.Get(ctx, metal, s.currency); err == nil && cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(metal+":"+s.currency, func() (interface{}, error) {
		p, err := s.repo.Latest(ctx, metal, s.currency)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, *p); err != nil {
			s.logger.Warn("price cache write failed",
				slog.String("metal", metal),
				slog.Any("error", err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*MetalPrice), nil
}

// LatestAll returns the newest stored price per tracked metal.
func (s *Service) LatestAll(ctx context.Context) ([]MetalPrice, error) {
	return s.repo.LatestAll(ctx, s.currency)
}
