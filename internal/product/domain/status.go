package domain

const (
	StatusInStock    = "In Stock"
	StatusOutOfStock = "Out of Stock"
)

// StatusForStock derives the stock status from a quantity. Status is never
// accepted from callers; every write path recomputes it through here.
func StatusForStock(stock int) string {
	if stock > 0 {
		return StatusInStock
	}
	return StatusOutOfStock
}
