package repository

import (
	"context"
	"errors"

	"fishmarket/internal/domain"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// FishRepository is the catalog side of the store.
type FishRepository interface {
	Create(ctx context.Context, f *domain.Fish) error
	GetByID(ctx context.Context, id int64) (*domain.Fish, error)
	Update(ctx context.Context, f *domain.Fish) error
	List(ctx context.Context) ([]domain.Fish, error)
}

// OrderRepository is the order side of the store.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
}

// TxManager runs fn as a single critical section over the store. For the
// file-backed store this is a write lock plus one document rewrite at commit.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
