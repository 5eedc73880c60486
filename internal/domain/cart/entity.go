// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/wouhouch/hub/internal/domain/catalog"
)

// Entry is one line of the cart, unique per (product, variant-or-none)
type Entry struct {
	Product catalog.Product  `json:"product"`
	Variant *catalog.Variant `json:"variant,omitempty"`
	Qty     int              `json:"qty"`
}

// VariantID returns the entry's variant id, or "" when it has none
func (e Entry) VariantID() string {
	if e.Variant == nil {
		return ""
	}
	return e.Variant.ID
}

// Matches reports whether the entry is the line for productID and variantID
func (e Entry) Matches(productID, variantID string) bool {
	return e.Product.ID == productID && e.VariantID() == variantID
}

// LineTotal is price times quantity
func (e Entry) LineTotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Qty)))
}

// Snapshot is a consistent read of the cart with its derived values
type Snapshot struct {
	Items     []Entry         `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Totals derives the total price and item count from entries
func Totals(entries []Entry) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, e := range entries {
		total = total.Add(e.LineTotal())
		count += e.Qty
	}
	return total, count
}
