package services

import (
	"context"
	"fmt"

	"go-storefront/models"
)

// DashboardStats is the summary shown on the back office home page.
type DashboardStats struct {
	models.OrderStats
	Customers int64 `json:"customers"`
	Products  int64 `json:"products"`
}

type StatsService struct {
	orders   OrderRepository
	users    UserRepository
	products ProductRepository
}

func NewStatsService(orders OrderRepository, users UserRepository, products ProductRepository) *StatsService {
	return &StatsService{orders: orders, users: users, products: products}
}

func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	os, err := s.orders.Stats(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("order stats: %w", err)
	}
	customers, err := s.users.Count(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count customers: %w", err)
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count products: %w", err)
	}
	return DashboardStats{OrderStats: os, Customers: customers, Products: products}, nil
}

// Customers lists users with their number of orders.
func (s *StatsService) Customers(ctx context.Context) ([]models.Customer, error) {
	users, err := s.users.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.orders.CountByUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(users))
	for _, u := range users {
		out = append(out, models.Customer{User: u, OrderCount: counts[u.ID]})
	}
	return out, nil
}
