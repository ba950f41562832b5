package catalog

import (
	"context"
	"errors"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
)

// Service provides catalog registration logic
type Service struct {
	repo Repository
}

// NewService creates a new catalog service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// EnsureProduct creates a catalog entry on first sighting of a name. An
// existing entry is left untouched.
func (s *Service) EnsureProduct(ctx context.Context, product Product) error {
	_, err := s.repo.GetProduct(ctx, product.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, commonErrors.NewNotFoundError("")) {
		return err
	}
	return s.repo.PutProduct(ctx, product)
}

// RecordPurchase increments a product's cumulative purchase count
func (s *Service) RecordPurchase(ctx context.Context, name string) error {
	product, err := s.repo.GetProduct(ctx, name)
	if err != nil {
		return err
	}
	product.PurchaseCount++
	return s.repo.PutProduct(ctx, product)
}

// MarkSubscription flips a product to non-buyout, creating the entry first
// when the name is new. The flag never flips back.
func (s *Service) MarkSubscription(ctx context.Context, product Product) error {
	existing, err := s.repo.GetProduct(ctx, product.Name)
	if err != nil {
		if !errors.Is(err, commonErrors.NewNotFoundError("")) {
			return err
		}
		product.Buyout = false
		return s.repo.PutProduct(ctx, product)
	}
	existing.Buyout = false
	return s.repo.PutProduct(ctx, existing)
}

// RegisterCategory appends a category label, ignoring blanks
func (s *Service) RegisterCategory(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	return s.repo.AddCategory(ctx, name)
}

// RegisterAccount appends an account label, ignoring blanks
func (s *Service) RegisterAccount(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	return s.repo.AddAccount(ctx, name)
}
