// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// ErrProductNotFound is returned when the backend has no such product,
// or the product is hidden from the storefront
var ErrProductNotFound = errors.New("product not found")

// Service reads and edits the product catalog through the backend API
type Service struct {
	api apiclient.Requester
}

// NewService creates a new catalog service
func NewService(api apiclient.Requester) *Service {
	return &Service{api: api}
}

// List returns active products, optionally restricted to one collection
func (s *Service) List(ctx context.Context, collection Collection) ([]Product, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(all))
	for _, p := range all {
		if !p.IsActive {
			continue
		}
		if collection != "" && p.Collection != collection {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// ListAll returns every product including inactive ones, for the admin shop
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	raw, err := s.api.Get(ctx, "/products")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := apiclient.DecodeList[Product](raw)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns one active product
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Resolve returns the product and, when variantID is set, its variant
func (s *Service) Resolve(ctx context.Context, productID, variantID string) (*Product, *Variant, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if variantID == "" {
		if p.HasVariants && len(p.Variants) > 0 {
			return nil, nil, validation.Field("variantId", "Please select an option")
		}
		return p, nil, nil
	}

	v, ok := p.FindVariant(variantID)
	if !ok {
		return nil, nil, validation.Field("variantId", "Unknown option for this product")
	}
	return p, v, nil
}

// Create adds a product
func (s *Service) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	raw, err := s.api.Post(ctx, "/products", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return decodeProduct(raw)
}

// Update replaces a product
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	raw, err := s.api.Put(ctx, "/products/"+url.PathEscape(id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return decodeProduct(raw)
}

// Delete removes a product
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, "/products/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id string) (*Product, error) {
	raw, err := s.api.Get(ctx, "/products/"+url.PathEscape(id))
	if err != nil {
		if apiclient.StatusCode(err) == 404 {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if raw == nil {
		return nil, ErrProductNotFound
	}
	return decodeProduct(raw)
}

func decodeProduct(raw []byte) (*Product, error) {
	var p Product
	if err := apiclient.Decode(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validateInput(in ProductInput) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		ve, ok := validation.AsErrors(err)
		if !ok {
			return err
		}
		errs = ve
	}

	if !in.Price.IsPositive() {
		errs.Add("price", "Price must be greater than 0")
	}
	if in.HasVariants && len(in.Variants) == 0 {
		errs.Add("variants", "Add at least one variant")
	}
	if !in.HasVariants && in.Stock == nil {
		errs.Add("stock", "Stock is required for products without variants")
	}

	candidate := Product{Variants: in.Variants}
	if err := candidate.Validate(); err != nil {
		errs.Add("variants", "Variants must not repeat the same option")
	}

	return errs.Err()
}
