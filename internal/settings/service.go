package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var ErrValidation = fmt.Errorf("setting: %w", httpx.ErrValidation)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

func (s *Service) Set(ctx context.Context, key, value string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrValidation)
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return s.repo.Get(ctx, key)
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// String returns the stored value or fallback when the key is missing.
func (s *Service) String(ctx context.Context, key, fallback string) string {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

// Float returns the stored value parsed as a float, or fallback when the key
// is missing or unparseable. A malformed value is logged once per read; the
// caller always gets a usable number.
func (s *Service) Float(ctx context.Context, key string, fallback float64) float64 {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(setting.Value), 64)
	if err != nil {
		s.logger.Warn("setting is not numeric",
			slog.String("key", key),
			slog.String("value", setting.Value))
		return fallback
	}
	return v
}
