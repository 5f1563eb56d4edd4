package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The storefront API and the persisted document both carry prices as plain
	// JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Fish is a catalog entry with a price and an available quantity.
type Fish struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int64           `json:"qty"`
	Desc  string          `json:"desc"`
}

// OrderLine is a single (fish id, quantity) pair within an order.
type OrderLine struct {
	FishID int64 `json:"id"`
	Qty    int64 `json:"qty"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customerName"`
	Items        []OrderLine     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
}
