package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wouhouch/hub/internal/domain/order"
)

func TestReceiptHTML(t *testing.T) {
	svc := NewService(CompanyInfo{Name: "Wouhouch", Email: "hello@wouhouch.com", Currency: "MAD"})
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }

	o := &order.Order{
		ID:           "ord-42",
		CustomerName: "Salma <Idrissi>",
		Email:        "salma@example.com",
		Address:      order.Address{Street: "12 Rue Atlas", City: "Casablanca", PostalCode: "20000"},
		Status:       order.StatusPaid,
		Total:        decimal.RequireFromString("204.8"),
		CreatedAt:    time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
		Items: []order.Item{
			{ProductID: "p1", Title: "Whey", Variant: "flavor: Chocolate", Qty: 2, UnitPrice: decimal.RequireFromString("89.9")},
			{ProductID: "p2", Qty: 1, UnitPrice: decimal.NewFromInt(25)},
		},
	}

	html, err := svc.ReceiptHTML(o)
	require.NoError(t, err)

	assert.Contains(t, html, "RCPT-ord-42")
	assert.Contains(t, html, "March 10, 2025")
	assert.Contains(t, html, "March 9, 2025")
	assert.Contains(t, html, "Salma &lt;Idrissi&gt;")
	assert.Contains(t, html, "12 Rue Atlas, Casablanca, 20000")
	assert.Contains(t, html, "flavor: Chocolate")
	assert.Contains(t, html, "179.80 MAD")
	assert.Contains(t, html, "<strong>p2</strong>")
	assert.Contains(t, html, "204.80 MAD")
	assert.Contains(t, html, "PAID")
}
