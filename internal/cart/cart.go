// Package cart holds the shopping cart logic: a mapping from melon id to
// quantity, plus the computation that turns it into priced lines.
package cart

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"ubermelon/internal/catalog"
)

// Cart maps melon id to a positive quantity. The zero value (nil) is an
// empty cart; Add allocates on first use.
type Cart map[string]int

// Add increments the quantity for id by qty, creating the entry if absent.
// It does not check that id exists in the catalog; an unknown id only
// surfaces when the cart is materialized.
func (c Cart) Add(id string, qty int) Cart {
	if c == nil {
		c = Cart{}
	}
	c[id] += qty
	return c
}

// Count returns the total number of melons across all lines.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// Line is one display row of a materialized cart.
type Line struct {
	Product  catalog.Product
	Qty      int
	Subtotal decimal.Decimal
}

// Materialize resolves every cart entry against the catalog and returns
// the priced lines, sorted by melon id, together with the order total.
// If any id is missing from the catalog the whole call fails with
// catalog.ErrNotFound and no partial result is returned.
func Materialize(ctx context.Context, c Cart, store catalog.Store) ([]Line, decimal.Decimal, error) {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]Line, 0, len(ids))
	total := decimal.Zero

	for _, id := range ids {
		p, err := store.Get(ctx, id)
		if err != nil {
			return nil, decimal.Zero, err
		}

		qty := c[id]
		sub := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, Line{Product: p, Qty: qty, Subtotal: sub})
		total = total.Add(sub)
	}

	return lines, total, nil
}
