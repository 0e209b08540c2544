package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "melons.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleCatalog = `mel-01|Watermelon|5.00|Classic.|/img/w.jpg|red|false
mel-02|Cantaloupe|3.50|Musky.|/img/c.jpg|orange|false
mel-03|Crenshaw|6.75|Spicy-sweet.|/img/cr.jpg|salmon|true
`

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	ctx := context.Background()

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Load order is preserved.
	assert.Equal(t, "mel-01", all[0].ID)
	assert.Equal(t, "mel-02", all[1].ID)
	assert.Equal(t, "mel-03", all[2].ID)

	p, err := s.Get(ctx, "mel-03")
	require.NoError(t, err)
	assert.Equal(t, "Crenshaw", p.Name)
	assert.True(t, p.Limited)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("6.75")))

	// Reads never mutate the table.
	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFileShortLine(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "mel-01|Watermelon|5.00\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRecord)
	assert.Contains(t, err.Error(), ":1:")
}

func TestLoadFileBadPrice(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "mel-01|Watermelon|cheap|d|/img|red|false\n"))
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestLoadFileNegativePrice(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "mel-01|Watermelon|-1.00|d|/img|red|false\n"))
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestLoadFileBadLimitedFlag(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "mel-01|Watermelon|5.00|d|/img|red|sometimes\n"))
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestLoadFileDuplicateIDLastWins(t *testing.T) {
	s, err := LoadFile(writeCatalog(t,
		"mel-01|Watermelon|5.00|first|/img|red|false\n"+
			"mel-02|Cantaloupe|3.50|d|/img|orange|false\n"+
			"mel-01|Watermelon|4.00|second|/img|red|false\n"))
	require.NoError(t, err)

	ctx := context.Background()

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// The duplicate keeps its original slot but the last fields win.
	assert.Equal(t, "mel-01", all[0].ID)
	assert.Equal(t, "second", all[0].Description)
}

func TestGetUnknownID(t *testing.T) {
	s, err := LoadFile(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "mel-99")
	assert.ErrorIs(t, err, ErrNotFound)
}
