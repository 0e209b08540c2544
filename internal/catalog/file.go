package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBadRecord is wrapped by LoadFile for any malformed line.
var ErrBadRecord = errors.New("malformed melon record")

const fieldCount = 7

// MemStore holds the catalog in memory. It is built once by LoadFile and
// never written afterwards, so reads need no locking.
type MemStore struct {
	byID  map[string]Product
	order []string
}

// LoadFile reads pipe-delimited melon records, one per line:
//
//	id|name|price|description|image_url|color|limited
//
// A line with the wrong field count, an unparseable price, or an
// unparseable limited flag fails the whole load. A duplicate id keeps its
// original position and the last line's fields win, matching how the
// legacy data files were maintained.
func LoadFile(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	s := &MemStore{byID: make(map[string]Product)}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}

		if _, seen := s.byID[p.ID]; !seen {
			s.order = append(s.order, p.ID)
		}
		s.byID[p.ID] = p
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return s, nil
}

func parseLine(line string) (Product, error) {
	fields := strings.Split(line, "|")
	if len(fields) != fieldCount {
		return Product{}, fmt.Errorf("%w: got %d fields, want %d", ErrBadRecord, len(fields), fieldCount)
	}

	price, err := decimal.NewFromString(fields[2])
	if err != nil {
		return Product{}, fmt.Errorf("%w: price %q", ErrBadRecord, fields[2])
	}
	if price.IsNegative() {
		return Product{}, fmt.Errorf("%w: negative price %q", ErrBadRecord, fields[2])
	}

	limited, err := strconv.ParseBool(fields[6])
	if err != nil {
		return Product{}, fmt.Errorf("%w: limited flag %q", ErrBadRecord, fields[6])
	}

	return Product{
		ID:          fields[0],
		Name:        fields[1],
		Price:       price,
		Description: fields[3],
		ImageURL:    fields[4],
		Color:       fields[5],
		Limited:     limited,
	}, nil
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}
