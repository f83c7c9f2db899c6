package service

import (
	"context"
	"fmt"

	"stockatelier/internal/dto"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"

	"github.com/shopspring/decimal"
)

// Per-field defaults applied when numeric input is absent or unparseable.
// Forgiving coercion is deliberate: messy form input succeeds with a default
// instead of blocking the operator.
const defaultStockAlertThreshold = 10

// ProductService is the resource manager for stock items.
type ProductService interface {
	List(ctx context.Context, category string) ([]model.StockItem, error)
	Get(ctx context.Context, id uint) (*model.StockItem, error)
	Create(ctx context.Context, req dto.StockItemRequest) (*model.StockItem, error)
	// Update has full-record replace semantics. Price changes only persist
	// when canEditPrices is set; for anyone else the stored price wins.
	Update(ctx context.Context, id uint, req dto.StockItemRequest, canEditPrices bool) (*model.StockItem, error)
	UpdateQuantity(ctx context.Context, id uint, req dto.QuantityPatchRequest) (*model.StockItem, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context, category string) ([]model.StockItem, error) {
	if category != "" && !model.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	return s.repo.List(ctx, category)
}

func (s *productService) Get(ctx context.Context, id uint) (*model.StockItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return item, nil
}

func (s *productService) Create(ctx context.Context, req dto.StockItemRequest) (*model.StockItem, error) {
	if err := validateStockItem(req); err != nil {
		return nil, err
	}

	item := &model.StockItem{
		Name:           req.Name,
		Reference:      req.Reference,
		Quantity:       nonNegative(req.Quantity.Or(0)),
		Unit:           orDefault(req.Unit, "pièce"),
		Location:       req.Location,
		UnitPrice:      nonNegativeDecimal(req.UnitPrice.Or(decimal.Zero)),
		AlertThreshold: nonNegative(req.AlertThreshold.Or(defaultStockAlertThreshold)),
		Category:       req.Category,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *productService) Update(ctx context.Context, id uint, req dto.StockItemRequest, canEditPrices bool) (*model.StockItem, error) {
	if err := validateStockItem(req); err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	item.Name = req.Name
	item.Reference = req.Reference
	item.Quantity = nonNegative(req.Quantity.Or(0))
	item.Unit = orDefault(req.Unit, "pièce")
	item.Location = req.Location
	item.AlertThreshold = nonNegative(req.AlertThreshold.Or(defaultStockAlertThreshold))
	item.Category = req.Category
	item.Notes = req.Notes
	// Price edits are admin-only; everyone else keeps the stored value.
	if canEditPrices {
		item.UnitPrice = nonNegativeDecimal(req.UnitPrice.Or(decimal.Zero))
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *productService) UpdateQuantity(ctx context.Context, id uint, req dto.QuantityPatchRequest) (*model.StockItem, error) {
	if !req.Quantity.Valid || req.Quantity.Value < 0 {
		return nil, fmt.Errorf("%w: quantity must be a non-negative integer", ErrInvalidInput)
	}
	if err := s.repo.UpdateQuantity(ctx, id, req.Quantity.Value); err != nil {
		return nil, asNotFound(err)
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return item, nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	return asNotFound(s.repo.Delete(ctx, id))
}

func validateStockItem(req dto.StockItemRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !model.ValidCategory(req.Category) {
		return fmt.Errorf("%w: category must be one of visserie, epi, base, general", ErrInvalidInput)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func nonNegativeDecimal(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func nonNegativeFloat(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
