package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var (
	ErrValidation = fmt.Errorf("customer: %w", httpx.ErrValidation)
	// ErrInUse means the customer is referenced by at least one quote and
	// cannot be deleted.
	ErrInUse = fmt.Errorf("%w: customer has quotes", httpx.ErrConflict)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	id, err := s.repo.Create(ctx, Customer{
		Name:    name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		existing.Name = name
	}
	if req.Email != nil {
		existing.Email = req.Email
	}
	if req.Phone != nil {
		existing.Phone = req.Phone
	}
	if req.Address != nil {
		existing.Address = req.Address
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a customer only when no quote references them. Quotes keep
// their history; the directory entry does not cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	inUse, err := s.repo.HasQuotes(ctx, id)
	if err != nil {
		return fmt.Errorf("check customer quotes: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: delete or reassign their quotes first", ErrInUse)
	}
	return s.repo.Delete(ctx, id)
}

// Exists satisfies the quote module's customer directory dependency.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
