package repository

import (
	"context"

	"stockatelier/internal/model"

	"gorm.io/gorm"
)

// ProductRepository is the data access contract for stock items.
type ProductRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	FindByID(ctx context.Context, id uint) (*model.StockItem, error)
	// List returns items newest-first, optionally filtered by category.
	// No pagination: expected volumes are a single workshop's inventory.
	List(ctx context.Context, category string) ([]model.StockItem, error)
	Update(ctx context.Context, item *model.StockItem) error
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	Delete(ctx context.Context, id uint) error

	CountAll(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	ListLowStock(ctx context.Context) ([]model.StockItem, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *productRepo) List(ctx context.Context, category string) ([]model.StockItem, error) {
	var items []model.StockItem
	q := r.db.WithContext(ctx).Model(&model.StockItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *productRepo) Update(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *productRepo) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.StockItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("quantity <= alert_threshold").Count(&n).Error
	return n, err
}

func (r *productRepo) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("quantity <= alert_threshold").
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}
