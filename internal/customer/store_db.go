package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

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

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Customer, error) {
	var c Customer

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT first_name, last_name, email, password
			FROM customers
			WHERE email = $1
		`, normalizeEmail(email)).Scan(&c.FirstName, &c.LastName, &c.Email, &c.Password)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Seed inserts customers into the table. An email that already exists
// fails the whole seed with ErrDuplicateEmail.
func (s *PostgresStore) Seed(ctx context.Context, customers []Customer) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO customers (first_name, last_name, email, password)
			VALUES ($1, $2, $3, $4)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range customers {
			_, err := stmt.ExecContext(ctx, c.FirstName, c.LastName, normalizeEmail(c.Email), c.Password)
			if err == nil {
				continue
			}
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}

		return tx.Commit()
	})
}

// All is used by the seed command to copy a flat file into Postgres.
func (s *MemStore) All() []Customer {
	out := make([]Customer, 0, len(s.byEmail))
	for _, c := range s.byEmail {
		out = append(out, c)
	}
	return out
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
