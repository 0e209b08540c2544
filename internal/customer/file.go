package customer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrBadRecord is wrapped by LoadFile for any malformed line.
var ErrBadRecord = errors.New("malformed customer record")

const fieldCount = 4

// MemStore holds customers keyed by email. Built once, read-only after.
type MemStore struct {
	byEmail map[string]Customer
}

// LoadFile reads pipe-delimited customer records, one per line:
//
//	first_name|last_name|email|password
//
// Exactly four fields per line. Emails are lowercased for lookup; a
// duplicate email keeps the last line's record.
func LoadFile(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open customers: %w", err)
	}
	defer f.Close()

	s := &MemStore{byEmail: make(map[string]Customer)}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != fieldCount {
			return nil, fmt.Errorf("%s:%d: %w: got %d fields, want %d",
				path, lineNo, ErrBadRecord, len(fields), fieldCount)
		}

		c := Customer{
			FirstName: fields[0],
			LastName:  fields[1],
			Email:     normalizeEmail(fields[2]),
			Password:  fields[3],
		}
		s.byEmail[c.Email] = c
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read customers: %w", err)
	}

	return s, nil
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) GetByEmail(ctx context.Context, email string) (Customer, error) {
	c, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
