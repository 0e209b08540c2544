package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no melon with the requested id exists.
var ErrNotFound = errors.New("melon not found")

// Product is one melon variety. Products are immutable after load.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Color       string          `json:"color"`
	Limited     bool            `json:"limited"`
}

type Store interface {
	// List returns every product in load order.
	List(ctx context.Context) ([]Product, error)
	// Get returns the product with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Product, error)
	Ping(ctx context.Context) error
}
