package domain

import "time"

// CartLine pairs a product snapshot with a quantity. The snapshot is taken
// when the line is added; later catalog edits do not change it.
type CartLine struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Product   Product   `json:"product_snapshot" bson:"product_snapshot"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// Cart holds the ordered lines for one session. At most one line exists per
// product ID. All amounts are reference-currency floats; formatting is the
// currency service's job.
type Cart struct {
	SessionID string     `json:"session_id" bson:"session_id"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// LineTotal is the line's unit price times its quantity.
func (l CartLine) LineTotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Subtotal sums the line totals.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.Lines {
		sum += l.LineTotal()
	}
	return sum
}

// Tax applies the caller-supplied rate to the subtotal. Tax policy is
// jurisdiction-specific and lives in configuration, not here.
func (c *Cart) Tax(rate float64) float64 {
	return c.Subtotal() * rate
}

// GrandTotal is subtotal plus tax.
func (c *Cart) GrandTotal(rate float64) float64 {
	return c.Subtotal() + c.Tax(rate)
}

// ItemCount sums quantities across lines, for the cart badge.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
