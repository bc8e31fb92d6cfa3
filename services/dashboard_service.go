package services

import (
	"context"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.uber.org/zap"
)

const (
	lowStockThreshold = 5
	recentOrderCount  = 5
)

type DashboardService struct {
	orders   repository.OrderRepo
	products repository.ProductRepo
	users    repository.UserRepo
	logger   *zap.Logger
	now      func() time.Time
}

func NewDashboardService(orders repository.OrderRepo, products repository.ProductRepo, users repository.UserRepo, logger *zap.Logger) *DashboardService {
	return &DashboardService{orders: orders, products: products, users: users, logger: logger, now: time.Now}
}

// Stats aggregates the admin dashboard figures. Revenue excludes cancelled orders.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	var err error
	fail := func(err error) (*models.DashboardStats, error) {
		s.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		return nil, apperrors.Internal("Failed to load dashboard stats", err)
	}

	if stats.TotalOrders, err = s.orders.Count(ctx, repository.OrderQuery{}); err != nil {
		return fail(err)
	}
	if stats.PendingOrders, err = s.orders.Count(ctx, repository.OrderQuery{Status: models.OrderStatusPending}); err != nil {
		return fail(err)
	}
	if stats.ProcessingOrders, err = s.orders.Count(ctx, repository.OrderQuery{Status: models.OrderStatusProcessing}); err != nil {
		return fail(err)
	}
	if stats.DeliveredOrders, err = s.orders.Count(ctx, repository.OrderQuery{Status: models.OrderStatusDelivered}); err != nil {
		return fail(err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue := repository.OrderQuery{ExcludeStatus: models.OrderStatusCancelled}

	if stats.TotalRevenue, err = s.orders.SumTotal(ctx, revenue); err != nil {
		return fail(err)
	}
	revenue.Since = today
	if stats.TodayRevenue, err = s.orders.SumTotal(ctx, revenue); err != nil {
		return fail(err)
	}
	revenue.Since = month
	if stats.MonthRevenue, err = s.orders.SumTotal(ctx, revenue); err != nil {
		return fail(err)
	}

	if stats.TotalProducts, err = s.products.Count(ctx, repository.ProductQuery{}); err != nil {
		return fail(err)
	}
	if stats.LowStockProducts, err = s.products.Count(ctx, repository.ProductQuery{QuantityBelow: lowStockThreshold}); err != nil {
		return fail(err)
	}
	if stats.TotalCustomers, err = s.users.Count(ctx); err != nil {
		return fail(err)
	}
	if stats.RecentOrders, err = s.orders.Find(ctx, repository.OrderQuery{}, 0, recentOrderCount); err != nil {
		return fail(err)
	}
	return &stats, nil
}
