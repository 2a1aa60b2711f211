package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddAccumulatesQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	id := uuid.New()

	require.NoError(t, c.Add(id, "vendor-a", "widget", 9.99, 2))
	require.NoError(t, c.Add(id, "vendor-a", "widget", 9.99, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "widget", lines[0].Name)
	assert.Equal(t, 9.99, lines[0].Price)
}

func TestCart_AddValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       uuid.UUID
		quantity int
	}{
		{name: "nil product id", id: uuid.Nil, quantity: 1},
		{name: "zero quantity", id: uuid.New(), quantity: 0},
		{name: "negative quantity", id: uuid.New(), quantity: -2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New()
			err := c.Add(tt.id, "v", "n", 1, tt.quantity)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, c.Len())
		})
	}
}

func TestCart_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New()
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, c.Add(first, "v1", "a", 1, 1))
	require.NoError(t, c.Add(second, "v2", "b", 2, 1))
	require.NoError(t, c.Add(third, "v3", "c", 3, 1))
	// Re-adding an existing product must not move it to the back.
	require.NoError(t, c.Add(first, "v1", "a", 1, 1))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, first, lines[0].ProductID)
	assert.Equal(t, second, lines[1].ProductID)
	assert.Equal(t, third, lines[2].ProductID)
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	id := uuid.New()
	require.NoError(t, c.Add(id, "v", "widget", 5, 2))

	require.NoError(t, c.UpdateQuantity(id, 7))
	assert.Equal(t, 7, c.Lines()[0].Quantity)
}

func TestCart_UpdateQuantityRejectsNonPositive(t *testing.T) {
	t.Parallel()

	c := New()
	id := uuid.New()
	require.NoError(t, c.Add(id, "v", "widget", 5, 2))

	for _, q := range []int{0, -1} {
		err := c.UpdateQuantity(id, q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, 2, c.Lines()[0].Quantity, "rejected updates must not change the line")
}

func TestCart_UpdateQuantityUnknownProduct(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.UpdateQuantity(uuid.New(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New()
	id := uuid.New()
	require.NoError(t, c.Add(id, "v", "widget", 5, 1))

	c.Remove(id)
	assert.Zero(t, c.Len())

	// No-op on absent line.
	c.Remove(id)
	assert.Zero(t, c.Len())
}

func TestCart_ClearAndTotal(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.Add(uuid.New(), "v1", "a", 10, 2))
	require.NoError(t, c.Add(uuid.New(), "v2", "b", 5, 1))

	assert.Equal(t, float64(25), c.Total())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Total())
	assert.Empty(t, c.Lines())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	t.Parallel()

	s := NewStore()
	a := s.Get("session-a")
	b := s.Get("session-b")

	require.NoError(t, a.Add(uuid.New(), "v", "widget", 1, 1))

	assert.Equal(t, 1, a.Len())
	assert.Zero(t, b.Len())
	assert.Same(t, a, s.Get("session-a"))
}

func TestStore_Drop(t *testing.T) {
	t.Parallel()

	s := NewStore()
	c := s.Get("session-a")
	require.NoError(t, c.Add(uuid.New(), "v", "widget", 1, 1))

	s.Drop("session-a")
	assert.Zero(t, s.Get("session-a").Len())
}
