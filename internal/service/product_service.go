package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

// ProductCache is the slice of the Redis API used for code lookups.
// *redis.Client satisfies it; tests plug in an in-memory recorder.
type ProductCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  ProductCache
}

// NewProductService builds the catalog service. rdb may be nil, in which
// case code lookups skip the cache.
func NewProductService(repo repository.ProductRepository, rdb ProductCache) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, domain.NewValidation("code", fmt.Sprintf("ya existe un producto con código %s", code))
	}

	p := &model.Product{
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		Brand:         req.Brand,
		Description:   req.Description,
		Unit:          req.Unit,
		MinStock:      req.MinStock,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByCode(ctx context.Context, code string) (*model.Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productCacheKey(code)).Result(); err == nil {
			var p model.Product
			if json.Unmarshal([]byte(cached), &p) == nil {
				return &p, nil
			}
		}
	}

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := s.rdb.Set(ctx, productCacheKey(code), data, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("code", code).Msg("product cache set failed")
			}
		}
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ProductToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	values, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(values))
	for _, v := range values {
		out = append(out, dto.CategoryResponse{Value: v, Label: categoryLabel(v)})
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Brand != nil {
		p.Brand = req.Brand
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Unit != "" {
		p.Unit = req.Unit
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.Code)
	return p, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, p.Code)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	// Without this, a cached code lookup keeps serving the product as
	// inactive until the entry expires.
	s.invalidate(ctx, p.Code)
	return nil
}

func (s *productService) invalidate(ctx context.Context, code string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey(code)).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("product cache invalidation failed")
	}
}

func productCacheKey(code string) string {
	return "product:code:" + code
}

func categoryLabel(value string) string {
	words := strings.Split(strings.ToLower(strings.ReplaceAll(value, "_", " ")), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ProductToResponse maps a Product to its API representation.
func ProductToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		Category:      p.Category,
		Brand:         p.Brand,
		Description:   p.Description,
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		IsLowStock:    p.IsLowStock(),
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		ProfitMargin:  p.ProfitMargin(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
