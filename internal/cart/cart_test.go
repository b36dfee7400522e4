package cart

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	ramKit = models.Product{ID: "p1", Name: "DDR4 RAM 16GB", Category: models.CategoryRAM, Price: 10, Stock: 2}
	ssd    = models.Product{ID: "p2", Name: "1TB SSD", Category: models.CategoryStorage, Price: 5, Stock: 0}
	laptop = models.Product{ID: "p3", Name: "ThinkPad T480", Category: models.CategoryLaptops, Price: 250, Stock: 4}
)

func TestAddCreatesSingleLine(t *testing.T) {
	c := New()

	c.Add(ramKit)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, 10.0, c.Total())
}

func TestAddExistingProductIncrementsQuantity(t *testing.T) {
	c := New()

	c.Add(ramKit)
	c.Add(ramKit)

	assert.Equal(t, 1, c.Len())
	lines := c.Lines()
	assert.Equal(t, "p1", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 20.0, c.Total())
	assert.Equal(t, 2, c.ItemCount())
}

func TestAddOutOfStockIsIgnored(t *testing.T) {
	c := New()

	c.Add(ssd)

	assert.Zero(t, c.Len())
	assert.Zero(t, c.ItemCount())
	assert.Zero(t, c.Total())
}

func TestRemoveDeletesLine(t *testing.T) {
	c := New()
	c.Add(ramKit)
	c.Add(laptop)

	c.Remove("p1")

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "p3", c.Lines()[0].Product.ID)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(ramKit)

	c.Remove("missing")

	assert.Equal(t, 1, c.Len())
}

func TestUpdateQuantityReplaces(t *testing.T) {
	c := New()
	c.Add(ramKit)

	c.UpdateQuantity("p1", 5)

	assert.Equal(t, 5, c.Lines()[0].Quantity)
	assert.Equal(t, 50.0, c.Total())
}

func TestUpdateQuantityBelowOneIsIgnored(t *testing.T) {
	c := New()
	c.Add(ramKit)

	c.UpdateQuantity("p1", 0)
	c.UpdateQuantity("p1", -3)

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestUpdateQuantityAbsentIsNoop(t *testing.T) {
	c := New()

	c.UpdateQuantity("missing", 3)

	assert.Zero(t, c.Len())
}

func TestClearEmptiesEverything(t *testing.T) {
	c := New()
	c.Add(ramKit)
	c.Add(ramKit)
	c.Add(laptop)

	c.Clear()

	assert.Zero(t, c.Len())
	assert.Zero(t, c.ItemCount())
	assert.Zero(t, c.Total())
}

func TestRemovingEveryLineZeroesTotals(t *testing.T) {
	c := New()
	c.Add(ramKit)
	c.Add(laptop)

	c.Remove("p1")
	c.Remove("p3")

	assert.Zero(t, c.ItemCount())
	assert.Zero(t, c.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	c.Add(ramKit)

	lines := c.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestWishlistToggleTwiceRestoresMembership(t *testing.T) {
	w := NewWishlist()

	w.Toggle("p2")
	assert.True(t, w.Contains("p2"))

	w.Toggle("p2")
	assert.False(t, w.Contains("p2"))
	assert.Empty(t, w.IDs())
}

func TestWishlistIndependentIDs(t *testing.T) {
	w := NewWishlist()

	w.Toggle("p1")
	w.Toggle("p2")
	w.Toggle("p3")
	w.Toggle("p2")

	assert.Equal(t, []string{"p1", "p3"}, w.IDs())
	assert.True(t, w.Contains("p1"))
	assert.False(t, w.Contains("p2"))
}
