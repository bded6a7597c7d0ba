package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/transport"
)

const (
	dashboardRecent = 5
	activityLimit   = 10
)

type DashboardService struct {
	Repo *repo.GormRepo
}

func (s *DashboardService) Summary(ctx context.Context) (*transport.DashboardResponse, error) {
	orders, err := s.Repo.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	revenue, err := s.Repo.TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	users, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	recentOrders, err := s.Repo.RecentOrders(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	recentContacts, err := s.Repo.RecentContacts(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("recent contacts: %w", err)
	}

	return &transport.DashboardResponse{
		TotalOrders:    orders,
		TotalRevenue:   revenue,
		TotalUsers:     users,
		RecentOrders:   recentOrders,
		RecentContacts: recentContacts,
	}, nil
}

// Activities merges the latest orders, sign-ups, contacts and services into
// one feed, newest first.
func (s *DashboardService) Activities(ctx context.Context) ([]transport.Activity, error) {
	orders, err := s.Repo.RecentOrders(ctx, 3)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	users, err := s.Repo.RecentUsers(ctx, models.RoleUser, 3)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	contacts, err := s.Repo.RecentContacts(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("recent contacts: %w", err)
	}
	services, err := s.Repo.RecentServices(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("recent services: %w", err)
	}

	out := make([]transport.Activity, 0, len(orders)+len(users)+len(contacts)+len(services))
	for _, o := range orders {
		out = append(out, transport.Activity{
			Type:      "ORDER",
			Message:   fmt.Sprintf("New order #%d placed - ₹%s", o.ID, strconv.FormatFloat(o.TotalPrice, 'f', -1, 64)),
			Timestamp: o.CreatedAt,
			Icon:      "📦",
		})
	}
	for _, u := range users {
		out = append(out, transport.Activity{
			Type:      "USER",
			Message:   "New user registered: " + u.Name,
			Timestamp: u.CreatedAt,
			Icon:      "👤",
		})
	}
	for _, c := range contacts {
		out = append(out, transport.Activity{
			Type:      "CONTACT",
			Message:   "New message from " + c.Name,
			Timestamp: c.CreatedAt,
			Icon:      "✉️",
		})
	}
	for _, sv := range services {
		if sv.CreatedAt.IsZero() {
			continue
		}
		out = append(out, transport.Activity{
			Type:      "SERVICE",
			Message:   "New artwork added: " + sv.Name,
			Timestamp: sv.CreatedAt,
			Icon:      "🎨",
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > activityLimit {
		out = out[:activityLimit]
	}
	return out, nil
}
