// internal/domain/order/entity.go
package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// Status represents the order status
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusPrepared  Status = "PREPARED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status in fulfilment order
var Statuses = []Status{StatusPending, StatusPaid, StatusPrepared, StatusDelivered, StatusCancelled}

// ParseStatus accepts any case and returns the canonical status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Address is where the order ships
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// String renders the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts the structured form or a single line of text
func (a *Address) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*a = Address{Street: line}
		return nil
	}
	type plain Address
	return json.Unmarshal(data, (*plain)(a))
}

// Item is one order line with the unit price captured at checkout
type Item struct {
	ID        string          `json:"id,omitempty"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title,omitempty"`
	VariantID string          `json:"variantId,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal is unit price times quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Order is a placed order owned by the backend
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	Address      Address         `json:"address"`
	Status       Status          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	Items        []Item          `json:"items"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// UnmarshalJSON reads the creation timestamp leniently and normalises the status
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		Status    string         `json:"status"`
		CreatedAt apiclient.Time `json:"createdAt"`
	}{plain: (*plain)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.CreatedAt = aux.CreatedAt.Time
	o.Status = StatusPending
	if aux.Status != "" {
		st, err := ParseStatus(aux.Status)
		if err != nil {
			return err
		}
		o.Status = st
	}
	return nil
}

// ItemCount is the sum of qty over all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}

// Billable reports whether the order counts toward revenue
func (o *Order) Billable() bool {
	return o.Status != StatusCancelled
}

// CheckoutForm is the shipping form of the checkout page
type CheckoutForm struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"phone"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Notes      string `json:"notes" validate:"max=1000"`
}

// placeRequest is the body POSTed to /orders
type placeRequest struct {
	CustomerName string          `json:"customerName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      Address         `json:"address"`
	Items        []placeItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
}

type placeItem struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId,omitempty"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
