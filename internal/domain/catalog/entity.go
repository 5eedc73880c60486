// internal/domain/catalog/entity.go
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Collection groups products in the shop
type Collection string

const (
	CollectionSupplementsGear Collection = "SUPPLEMENTS_GEAR"
	CollectionApparel         Collection = "APPAREL"
)

// ParseCollection accepts any case and returns the canonical value
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToUpper(strings.TrimSpace(s))); c {
	case CollectionSupplementsGear, CollectionApparel:
		return c, nil
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

// UnmarshalJSON rejects collections outside the closed set. Empty means unset.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseCollection(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// VariantType is the axis a variant varies along
type VariantType string

const (
	VariantSize   VariantType = "size"
	VariantFlavor VariantType = "flavor"
	VariantColor  VariantType = "color"
)

// Valid reports whether t is a known variant axis
func (t VariantType) Valid() bool {
	switch t {
	case VariantSize, VariantFlavor, VariantColor:
		return true
	}
	return false
}

// Image is one product picture
type Image struct {
	URL      string `json:"url" validate:"required"`
	AltText  string `json:"altText"`
	Title    string `json:"title,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// Variant is a purchasable option of a product
type Variant struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Type      VariantType `json:"variantType" validate:"required,oneof=size flavor color"`
	Value     string      `json:"value" validate:"required"`
	Stock     int         `json:"stock" validate:"gte=0"`
}

// Label renders the variant as shown to shoppers, e.g. "size: XL"
func (v Variant) Label() string {
	return fmt.Sprintf("%s: %s", v.Type, v.Value)
}

// Product is a catalog item owned by the backend
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Collection  Collection      `json:"collection"`
	Images      []Image         `json:"images"`
	HasVariants bool            `json:"hasVariants"`
	Stock       *int            `json:"stock,omitempty"` // nil when variants carry stock
	IsActive    bool            `json:"isActive"`
	Variants    []Variant       `json:"variants,omitempty"`
}

// FindVariant returns the variant with the given id
func (p *Product) FindVariant(id string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// Validate checks that no two variants share the same (type, value) pair
func (p *Product) Validate() error {
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		key := string(v.Type) + "\x00" + strings.ToLower(v.Value)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate variant %s for product %s", v.Label(), p.ID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// AvailableStock is the product stock, or the sum of variant stock for variant products
func (p *Product) AvailableStock() int {
	if p.Stock != nil {
		return *p.Stock
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// CoverImage returns the first image by position, or nil
func (p *Product) CoverImage() *Image {
	var best *Image
	for i := range p.Images {
		img := &p.Images[i]
		if best == nil {
			best = img
			continue
		}
		if img.Position != nil && (best.Position == nil || *img.Position < *best.Position) {
			best = img
		}
	}
	return best
}

// ProductInput is the admin form for creating or editing a product
type ProductInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Collection  Collection      `json:"collection" validate:"required"`
	Images      []Image         `json:"images" validate:"dive"`
	HasVariants bool            `json:"hasVariants"`
	Stock       *int            `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    bool            `json:"isActive"`
	Variants    []Variant       `json:"variants,omitempty" validate:"dive"`
}
