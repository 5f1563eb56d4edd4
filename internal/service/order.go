package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fishmarket/internal/domain"
	"fishmarket/internal/repository"
)

// OrderService implements checkout: validate every line against current stock,
// then deduct and record the order, all inside one store transaction.
type OrderService struct {
	catalog repository.FishRepository
	orders  repository.OrderRepository
	tx      repository.TxManager
}

func NewOrderService(catalog repository.FishRepository, orders repository.OrderRepository, tx repository.TxManager) *OrderService {
	return &OrderService{catalog: catalog, orders: orders, tx: tx}
}

// Place checks availability for all lines before touching anything, so a bad
// line rejects the whole order with no partial deduction.
func (s *OrderService) Place(ctx context.Context, customerName string, lines []domain.OrderLine) (*domain.Order, error) {
	if customerName == "" || len(lines) == 0 {
		return nil, ErrValidation
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// Working copies keyed by fish id; repeated lines for the same fish see
		// the already-deducted quantity, so the available count never goes
		// negative.
		touched := make(map[int64]*domain.Fish, len(lines))
		total := decimal.Zero
		for _, ln := range lines {
			f, ok := touched[ln.FishID]
			if !ok {
				var err error
				f, err = s.catalog.GetByID(ctx, ln.FishID)
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("fish with id %d %w", ln.FishID, repository.ErrNotFound)
				}
				if err != nil {
					return err
				}
				touched[f.ID] = f
			}
			if ln.Qty <= 0 || ln.Qty > f.Qty {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, f.Name)
			}
			f.Qty -= ln.Qty
			total = total.Add(f.Price.Mul(decimal.NewFromInt(ln.Qty)))
		}

		for _, f := range touched {
			if err := s.catalog.Update(ctx, f); err != nil {
				return err
			}
		}

		o := domain.Order{
			CustomerName: customerName,
			Items:        lines,
			Total:        total.Round(2),
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Orders returns all placed orders in stored sequence.
func (s *OrderService) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}
