package service

import (
	"context"

	"stockatelier/internal/dto"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"
)

// DashboardService aggregates the overview counters and feeds the PDF report.
type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	LowStockItems(ctx context.Context) ([]model.StockItem, error)
}

type dashboardService struct {
	products repository.ProductRepository
	machines repository.MachineRepository
}

func NewDashboardService(products repository.ProductRepository, machines repository.MachineRepository) DashboardService {
	return &dashboardService{products: products, machines: machines}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	total, err := s.products.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.products.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	machines, err := s.machines.Count(ctx)
	if err != nil {
		return nil, err
	}
	byCat, err := s.products.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalProducts: total,
		LowStock:      low,
		Machines:      machines,
		ByCategory:    make([]dto.CategoryCount, 0, len(byCat)),
	}
	// Stable order: the fixed category enumeration.
	for _, c := range []string{model.CategoryVisserie, model.CategoryEPI, model.CategoryBase, model.CategoryGeneral} {
		if n, ok := byCat[c]; ok {
			stats.ByCategory = append(stats.ByCategory, dto.CategoryCount{Category: c, Count: n})
		}
	}
	return stats, nil
}

func (s *dashboardService) LowStockItems(ctx context.Context) ([]model.StockItem, error) {
	return s.products.ListLowStock(ctx)
}
