// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/domain/cart"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/notify"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

var (
	// ErrEmptyCart is returned when checking out without items
	ErrEmptyCart = errors.New("Your cart is empty")

	// ErrNoOrderID is returned when the backend accepted an order without an id
	ErrNoOrderID = errors.New("order response carried no id")
)

// Cart is the part of the cart store checkout needs
type Cart interface {
	Snapshot() cart.Snapshot
	Clear(ctx context.Context) cart.Snapshot
}

// Exporter downloads non-JSON bodies from the backend
type Exporter interface {
	Raw(ctx context.Context, path string) ([]byte, string, error)
}

// Recorder counts placed orders
type Recorder interface {
	RecordOrderPlaced()
}

// Service places orders and manages them for admins
type Service struct {
	api      apiclient.Requester
	notifier notify.Notifier
	recorder Recorder
	log      logrus.FieldLogger
}

// NewService creates a new order service. recorder may be nil.
func NewService(api apiclient.Requester, notifier notify.Notifier, recorder Recorder, log logrus.FieldLogger) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		api:      api,
		notifier: notifier,
		recorder: recorder,
		log:      log.WithField("component", "order"),
	}
}

// Checkout places the cart as an order. The cart is cleared only once the
// backend returned an order id.
func (s *Service) Checkout(ctx context.Context, c Cart, form CheckoutForm) (string, error) {
	snap := c.Snapshot()
	if len(snap.Items) == 0 {
		return "", ErrEmptyCart
	}

	form = trimForm(form)
	if err := validation.Struct(form); err != nil {
		return "", err
	}

	req := placeRequest{
		CustomerName: form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Address: Address{
			Street:     form.Address,
			City:       form.City,
			PostalCode: form.PostalCode,
		},
		Items: make([]placeItem, 0, len(snap.Items)),
		Total: snap.Total,
		Notes: form.Notes,
	}
	for _, e := range snap.Items {
		req.Items = append(req.Items, placeItem{
			ProductID: e.Product.ID,
			VariantID: e.VariantID(),
			Qty:       e.Qty,
			UnitPrice: e.Product.Price,
		})
	}

	raw, err := s.api.Post(ctx, "/orders", req)
	if err != nil {
		return "", fmt.Errorf("failed to place order: %w", err)
	}

	id := apiclient.String(raw, "id")
	if id == "" {
		id = apiclient.String(raw, "data.id")
	}
	if id == "" {
		s.log.Warn("Order response carried no id, keeping cart")
		return "", ErrNoOrderID
	}

	c.Clear(ctx)
	if s.recorder != nil {
		s.recorder.RecordOrderPlaced()
	}
	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"items":    snap.ItemCount,
		"total":    snap.Total.StringFixed(2),
	}).Info("Order placed")

	s.notifier.Success("Order placed successfully!")
	return id, nil
}

// List returns every order, newest first
func (s *Service) List(ctx context.Context) ([]Order, error) {
	raw, err := s.api.Get(ctx, "/orders")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := apiclient.DecodeList[Order](raw)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Get returns one order
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	raw, err := s.api.Get(ctx, "/orders/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var o Order
	if err := apiclient.Decode(raw, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus moves an order to a new status
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) error {
	st, err := ParseStatus(status)
	if err != nil {
		return validation.Field("status", "Unknown order status")
	}

	body := map[string]Status{"status": st}
	if _, err := s.api.Patch(ctx, "/orders/"+url.PathEscape(id)+"/status", body); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.notifier.Success(fmt.Sprintf("Order %s updated to %s", id, strings.ToLower(string(st))))
	return nil
}

// Export downloads the backend's CSV export untouched
func (s *Service) Export(ctx context.Context, exp Exporter) ([]byte, string, error) {
	body, contentType, err := exp.Raw(ctx, "/orders/export")
	if err != nil {
		return nil, "", fmt.Errorf("failed to export orders: %w", err)
	}
	if contentType == "" {
		contentType = "text/csv"
	}
	s.notifier.Success("Orders exported to CSV")
	return body, contentType, nil
}

// Filter keeps orders whose id, customer or email contain query, case-insensitively
func Filter(orders []Order, query string) []Order {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.Email), q) {
			out = append(out, o)
		}
	}
	return out
}

func trimForm(f CheckoutForm) CheckoutForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	return f
}
