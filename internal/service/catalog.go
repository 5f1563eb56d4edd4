package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"fishmarket/internal/domain"
	"fishmarket/internal/repository"
)

var (
	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("invalid input")
	// ErrInsufficientStock means a requested quantity exceeds what is available.
	ErrInsufficientStock = errors.New("insufficient quantity")
)

// CatalogService handles the fish catalog: listing and the admin add endpoint.
type CatalogService struct {
	repo repository.FishRepository
}

func NewCatalogService(repo repository.FishRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Add validates and appends a new catalog entry. Quantity zero is allowed: the
// fish shows up in the catalog but cannot be ordered until restocked.
func (s *CatalogService) Add(ctx context.Context, name string, price decimal.Decimal, qty int64, desc string) (*domain.Fish, error) {
	if name == "" || !price.IsPositive() || qty < 0 {
		return nil, ErrValidation
	}
	f := domain.Fish{Name: name, Price: price, Qty: qty, Desc: desc}
	if err := s.repo.Create(ctx, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Fish, error) {
	return s.repo.List(ctx)
}
