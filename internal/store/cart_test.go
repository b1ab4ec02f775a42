package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/storage"
)

func tempState(t *testing.T) *storage.Store {
	t.Helper()
	return storage.Open(filepath.Join(t.TempDir(), "state.json"))
}

func ups(id int64, price float64, stock int) model.Product {
	return model.Product{ProductID: id, Name: "UPS", Price: price, Stock: stock}
}

func TestAddNewAndIncrement(t *testing.T) {
	c := NewCart(tempState(t))

	assert.Equal(t, Added, c.Add(ups(1, 1000, 3)))
	assert.Equal(t, Incremented, c.Add(ups(1, 1000, 3)))

	items := c.Items()
	require.Len(t, items, 1, "same product must never create two lines")
	assert.Equal(t, 2, items[0].Quantity)
}

func TestStockCeiling(t *testing.T) {
	const stock = 3
	c := NewCart(tempState(t))

	for i := 0; i < stock; i++ {
		assert.NotEqual(t, Capped, c.Add(ups(1, 500, stock)))
	}
	// The (S+1)-th add is refused and quantity stays at S
	assert.Equal(t, Capped, c.Add(ups(1, 500, stock)))
	assert.Equal(t, stock, c.Items()[0].Quantity)
}

func TestAddOutOfStockProduct(t *testing.T) {
	c := NewCart(tempState(t))
	assert.Equal(t, Capped, c.Add(ups(1, 500, 0)))
	assert.Empty(t, c.Items())
}

func TestUpdateQuantity(t *testing.T) {
	c := NewCart(tempState(t))
	c.Add(ups(1, 100, 5))

	assert.Equal(t, Incremented, c.UpdateQuantity(1, 4))
	assert.Equal(t, 4, c.Items()[0].Quantity)

	// Past the ceiling: refused, state unchanged
	assert.Equal(t, Capped, c.UpdateQuantity(1, 6))
	assert.Equal(t, 4, c.Items()[0].Quantity)

	// Zero or less removes the line
	assert.Equal(t, Removed, c.UpdateQuantity(1, 0))
	assert.Empty(t, c.Items())
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	c := NewCart(tempState(t))
	assert.Equal(t, Capped, c.UpdateQuantity(42, 1))
}

func TestRemoveIsUnconditional(t *testing.T) {
	c := NewCart(tempState(t))
	c.Add(ups(1, 100, 5))

	c.Remove(1)
	assert.Empty(t, c.Items())
	c.Remove(1) // absent: no-op
}

func TestCountAndTotal(t *testing.T) {
	c := NewCart(tempState(t))
	c.Add(ups(1, 1000, 5))
	c.Add(ups(1, 1000, 5))
	c.Add(ups(2, 500, 5))

	assert.Equal(t, 3, c.Count())
	assert.InDelta(t, 2500, c.Total(), 0.001)
}

func TestCheckoutTotals(t *testing.T) {
	c := NewCart(tempState(t))
	c.Add(ups(1, 1000, 2))
	c.Add(ups(1, 1000, 2))
	c.Add(ups(2, 500, 1))

	assert.InDelta(t, 2500, c.Total(), 0.001)
	assert.InDelta(t, 200, c.Shipping(), 0.001)
	assert.InDelta(t, 2700, c.GrandTotal(), 0.001)

	// Over the free-shipping floor
	big := NewCart(tempState(t))
	big.Add(ups(3, 6000, 1))
	assert.InDelta(t, 0, big.Shipping(), 0.001)
	assert.InDelta(t, 6000, big.GrandTotal(), 0.001)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := storage.Open(path)

	c := NewCart(state)
	c.Add(ups(1, 1000, 5))
	c.Add(ups(2, 500, 5))
	c.Add(ups(2, 500, 5))

	// A new cart over the same file sees the same {product, quantity} pairs
	reloaded := NewCart(storage.Open(path))
	want := map[int64]int{}
	for _, it := range c.Items() {
		want[it.ProductID] = it.Quantity
	}
	got := map[int64]int{}
	for _, it := range reloaded.Items() {
		got[it.ProductID] = it.Quantity
	}
	assert.Equal(t, want, got)
}

func TestPersistedAfterEveryMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	c := NewCart(storage.Open(path))

	c.Add(ups(1, 100, 5))
	assert.Equal(t, 1, NewCart(storage.Open(path)).Count())

	c.UpdateQuantity(1, 3)
	assert.Equal(t, 3, NewCart(storage.Open(path)).Count())

	c.Clear()
	assert.Equal(t, 0, NewCart(storage.Open(path)).Count())
}

func TestOrderItems(t *testing.T) {
	c := NewCart(tempState(t))
	c.Add(ups(1, 1000, 2))
	c.Add(ups(1, 1000, 2))

	items := c.OrderItems()
	require.Len(t, items, 1)
	assert.Equal(t, model.OrderItem{ProductID: 1, Name: "UPS", Price: 1000, Quantity: 2}, items[0])
}
