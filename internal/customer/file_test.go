package customer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCustomers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(writeCustomers(t,
		"Jane|Hacks|jane@ubermelon.com|secret\n"+
			"Sadie|Jackson|sadie@ubermelon.com|pears\n"))
	require.NoError(t, err)

	c, err := s.GetByEmail(context.Background(), "jane@ubermelon.com")
	require.NoError(t, err)
	assert.Equal(t, Customer{
		FirstName: "Jane",
		LastName:  "Hacks",
		Email:     "jane@ubermelon.com",
		Password:  "secret",
	}, c)
}

func TestGetByEmailNormalizes(t *testing.T) {
	s, err := LoadFile(writeCustomers(t, "Jane|Hacks|Jane@Ubermelon.com|secret\n"))
	require.NoError(t, err)

	c, err := s.GetByEmail(context.Background(), "  JANE@ubermelon.com ")
	require.NoError(t, err)
	assert.Equal(t, "jane@ubermelon.com", c.Email)
}

func TestGetByEmailMiss(t *testing.T) {
	s, err := LoadFile(writeCustomers(t, "Jane|Hacks|jane@ubermelon.com|secret\n"))
	require.NoError(t, err)

	_, err = s.GetByEmail(context.Background(), "nobody@ubermelon.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFileShortLine(t *testing.T) {
	_, err := LoadFile(writeCustomers(t, "Jane|Hacks|jane@ubermelon.com\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
