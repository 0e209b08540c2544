package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore serves the catalog from a products table. Load order is
// preserved through the pos column written at seed time.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, description, image_url, color, limited
			FROM products
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 32)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &p.Color, &p.Limited); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, price, description, image_url, color, limited
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &p.Color, &p.Limited)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// Seed upserts products into the table, assigning positions in slice order.
func (s *PostgresStore) Seed(ctx context.Context, products []Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, name, price, description, image_url, color, limited, pos)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				description = EXCLUDED.description,
				image_url = EXCLUDED.image_url,
				color = EXCLUDED.color,
				limited = EXCLUDED.limited,
				pos = EXCLUDED.pos
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, p := range products {
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Price, p.Description, p.ImageURL, p.Color, p.Limited, i); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
