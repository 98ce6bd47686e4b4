package service

import (
	"context"
	"fmt"
	"strings"

	"lasercraft-pos/internal/models"
	"lasercraft-pos/internal/store"
	"lasercraft-pos/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles product lifecycle: create with active-name
// uniqueness, edit, soft delete, listing, and the stock snapshot behind
// the POS page.
type CatalogService struct {
	catalog store.Catalog
	cache   StockCache
	audit   AuditRecorder
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog store.Catalog, cache StockCache, audit AuditRecorder) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		cache:   cache,
		audit:   audit,
		logger:  util.GetLogger(),
	}
}

// ProductRequest carries the caller-supplied product fields.
type ProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	MaterialType string  `json:"material_type"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
}

// AddProduct creates a catalog entry. The name is normalized to lower case
// and rejected if it collides with another active product.
func (s *CatalogService) AddProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProduct")
	defer span.End()

	p, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	util.ProductsCreatedTotal.Inc()
	s.audit.Record(ctx, "ADD", p.Name,
		fmt.Sprintf("Material:%s Category:%s Price:%.2f Stock:%d",
			p.MaterialType, p.Category, p.Price, p.Stock))

	s.refreshStock(ctx, p.ID, p.Stock)
	return p, nil
}

// UpdateProduct rewrites an active product. The name collision check runs
// against other ids only, so renaming a product to its own name is fine.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	p, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.catalog.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "EDIT", p.Name,
		fmt.Sprintf("Category:%s Price:%.2f Stock:%d", p.Category, p.Price, p.Stock))

	s.refreshStock(ctx, p.ID, p.Stock)
	return p, nil
}

// DeleteProduct soft-deletes a product. Sales referencing it keep their
// name and total snapshots.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.catalog.SoftDeleteProduct(ctx, id); err != nil {
		return err
	}

	util.ProductsDeletedTotal.Inc()
	s.audit.Record(ctx, "DELETE", fmt.Sprintf("Product ID %d", id), "")

	if err := s.cache.RemoveStock(ctx, id); err != nil {
		s.logger.Warn("Failed to drop product from stock cache",
			zap.Int64("product_id", id), zap.Error(err))
	}
	return nil
}

// GetProduct retrieves one active product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

// ListProducts retrieves one page of active products plus the total count.
func (s *CatalogService) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return s.catalog.ListProducts(ctx, page, perPage)
}

// StockLevels serves the POS stock snapshot from the cache, falling back
// to the database (and warming the cache) when the cache is cold or down.
func (s *CatalogService) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	cached, err := s.cache.GetAllStock(ctx)
	if err == nil && len(cached) > 0 {
		levels := make([]models.StockLevel, 0, len(cached))
		for id, stock := range cached {
			levels = append(levels, models.StockLevel{ProductID: id, Stock: stock})
		}
		return levels, nil
	}
	if err != nil {
		s.logger.Warn("Stock cache read failed, falling back to database", zap.Error(err))
	}

	levels, err := s.catalog.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	warm := make(map[int64]int, len(levels))
	for _, l := range levels {
		warm[l.ProductID] = l.Stock
	}
	if err := s.cache.SetStockBulk(ctx, warm); err != nil {
		s.logger.Warn("Failed to warm stock cache", zap.Error(err))
	}
	return levels, nil
}

func (s *CatalogService) refreshStock(ctx context.Context, id int64, stock int) {
	if err := s.cache.SetStock(ctx, id, stock); err != nil {
		s.logger.Warn("Failed to refresh stock cache",
			zap.Int64("product_id", id), zap.Error(err))
	}
}

func productFromRequest(req *ProductRequest) (*models.Product, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return nil, models.Validationf("name", "name is required")
	}
	if req.Price < 0 {
		return nil, models.Validationf("price", "price must not be negative")
	}
	if req.Stock < 0 {
		return nil, models.Validationf("stock", "stock must not be negative")
	}

	category := req.Category
	if category == "" {
		category = "uncategorized"
	}

	return &models.Product{
		Name:         name,
		MaterialType: req.MaterialType,
		Category:     category,
		Price:        req.Price,
		Stock:        req.Stock,
	}, nil
}
