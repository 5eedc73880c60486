// internal/domain/dashboard/dashboard.go
package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wouhouch/hub/internal/domain/coaching"
	"github.com/wouhouch/hub/internal/domain/event"
	"github.com/wouhouch/hub/internal/domain/order"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
)

// RecentLimit caps the recent leads and orders lists
const RecentLimit = 3

// Stats are the admin dashboard tiles
type Stats struct {
	NewLeads       int             `json:"newLeads"`
	UpcomingEvents int             `json:"upcomingEvents"`
	Registrations  int             `json:"registrations"`
	PendingOrders  int             `json:"pendingOrders"`
	RevenueMTD     decimal.Decimal `json:"revenueMtd"`
	RecentLeads    []coaching.Lead `json:"recentLeads"`
	RecentOrders   []order.Order   `json:"recentOrders"`
}

// Build derives the dashboard from already fetched data. Revenue counts
// non-cancelled orders created since the first day of now's month.
func Build(events []event.Event, orders []order.Order, leads []coaching.Lead, now time.Time) Stats {
	s := Stats{
		RevenueMTD:   decimal.Zero,
		RecentLeads:  []coaching.Lead{},
		RecentOrders: []order.Order{},
	}

	for _, l := range leads {
		if l.Status == coaching.LeadNew {
			s.NewLeads++
		}
	}
	for _, e := range events {
		if event.Classify(e, now) == event.StatusUpcoming {
			s.UpcomingEvents++
			s.Registrations += e.RegistrationsCount
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, o := range orders {
		if o.Status == order.StatusPending {
			s.PendingOrders++
		}
		if o.Billable() && !o.CreatedAt.Before(monthStart) && !o.CreatedAt.After(now) {
			s.RevenueMTD = s.RevenueMTD.Add(o.Total)
		}
	}

	s.RecentLeads = append(s.RecentLeads, head(leads, RecentLimit)...)
	s.RecentOrders = append(s.RecentOrders, head(orders, RecentLimit)...)
	return s
}

// Sources are the services the dashboard reads from
type Sources struct {
	Events   *event.Service
	Orders   *order.Service
	Coaching *coaching.Service
}

// Load fetches events, orders and leads concurrently and builds the dashboard.
// Every fetch runs to completion so a rejected session is always reported.
func Load(ctx context.Context, src Sources, now time.Time) (Stats, error) {
	var (
		events []event.Event
		orders []order.Order
		leads  []coaching.Lead
		errs   [3]error
	)

	var g errgroup.Group
	g.Go(func() error {
		events, errs[0] = src.Events.List(ctx)
		return nil
	})
	g.Go(func() error {
		orders, errs[1] = src.Orders.List(ctx)
		return nil
	})
	g.Go(func() error {
		leads, errs[2] = src.Coaching.Leads(ctx)
		return nil
	})
	g.Wait()

	if err := apiclient.Decisive(errs[:]...); err != nil {
		return Stats{}, err
	}

	return Build(events, orders, leads, now), nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
