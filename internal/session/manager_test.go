package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLifecycle(t *testing.T) {
	m := NewManager(time.Hour)
	sid := m.Create()

	require.True(t, m.Exists(sid))
	assert.True(t, m.AddToCart(sid, "mel-01", 1))
	assert.True(t, m.AddToCart(sid, "mel-01", 1))

	c := m.Cart(sid)
	assert.Equal(t, 2, c["mel-01"])

	// The returned cart is a copy.
	c.Add("mel-01", 10)
	assert.Equal(t, 2, m.Cart(sid)["mel-01"])
}

func TestCartsAreSessionScoped(t *testing.T) {
	m := NewManager(time.Hour)
	a := m.Create()
	b := m.Create()

	m.AddToCart(a, "mel-01", 1)

	assert.Equal(t, 1, m.Cart(a).Count())
	assert.Equal(t, 0, m.Cart(b).Count())
}

func TestFlashDequeueClears(t *testing.T) {
	m := NewManager(time.Hour)
	sid := m.Create()

	m.Flash(sid, "one")
	m.Flash(sid, "two")

	assert.Equal(t, []string{"one", "two"}, m.PopFlashes(sid))
	assert.Empty(t, m.PopFlashes(sid))
}

func TestEmail(t *testing.T) {
	m := NewManager(time.Hour)
	sid := m.Create()

	assert.Empty(t, m.Email(sid))
	m.SetEmail(sid, "jane@ubermelon.com")
	assert.Equal(t, "jane@ubermelon.com", m.Email(sid))
}

func TestDestroy(t *testing.T) {
	m := NewManager(time.Hour)
	sid := m.Create()
	m.AddToCart(sid, "mel-01", 1)

	m.Destroy(sid)

	assert.False(t, m.Exists(sid))
	assert.False(t, m.AddToCart(sid, "mel-01", 1))
	assert.Nil(t, m.Cart(sid))
}

func TestPrune(t *testing.T) {
	m := NewManager(time.Minute)

	now := time.Now()
	m.now = func() time.Time { return now }
	stale := m.Create()

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	fresh := m.Create()

	assert.Equal(t, 1, m.Prune())
	assert.False(t, m.Exists(stale))
	assert.True(t, m.Exists(fresh))
}
