package service

import (
	"context"
	"fmt"
	"time"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService is the stock ledger: the only sanctioned writer of
// Product.StockQuantity. Every change goes through a movement record,
// persisted atomically with the new stock value under a per-product
// row lock.
type StockService interface {
	RegistrarMovimiento(ctx context.Context, req dto.CreateMovementRequest, actorID uuid.UUID) (*model.StockMovement, *model.Product, error)
	ListMovimientos(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	// DebitarVentaTx issues a VENTA movement inside an existing transaction.
	// Used by order completion so all debits share one commit.
	DebitarVentaTx(tx *gorm.DB, productID uuid.UUID, quantity int, reference string, actorID uuid.UUID) error
}

type stockService struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	cache       ProductCache
}

// NewStockService builds the stock ledger service. cache may be nil, in
// which case movements skip cache eviction.
func NewStockService(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, cache ProductCache) StockService {
	return &stockService{productRepo: productRepo, movRepo: movRepo, cache: cache}
}

// evictCachedCode drops the code lookup entry so a cached product never
// keeps serving pre-movement stock for the rest of its TTL.
func (s *stockService) evictCachedCode(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey(code)).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("product cache invalidation failed")
	}
}

func (s *stockService) RegistrarMovimiento(ctx context.Context, req dto.CreateMovementRequest, actorID uuid.UUID) (*model.StockMovement, *model.Product, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, nil, domain.NewValidation("product_id", "id inválido")
	}

	switch req.MovementType {
	case model.MovementCompra, model.MovementVenta:
		if req.Quantity <= 0 {
			return nil, nil, domain.NewValidation("quantity", "la cantidad debe ser mayor a cero")
		}
	case model.MovementAjuste:
		if req.Quantity < 0 {
			return nil, nil, domain.NewValidation("quantity", "el ajuste de stock no puede ser negativo")
		}
	default:
		return nil, nil, domain.NewValidation("movement_type", "tipo de movimiento desconocido")
	}

	var movement *model.StockMovement
	var updated *model.Product

	txErr := s.productRepo.Transact(ctx, func(tx *gorm.DB) error {
		// Row lock serializes concurrent movements on the same product.
		product, err := s.productRepo.FindByIDForUpdate(tx, productID)
		if err != nil {
			return domain.ErrNotFound
		}

		newStock := product.StockQuantity
		switch req.MovementType {
		case model.MovementCompra:
			newStock += req.Quantity
		case model.MovementVenta:
			newStock -= req.Quantity
			if newStock < 0 {
				return &domain.InsufficientStockError{
					Product:   product.Name,
					Available: product.StockQuantity,
					Requested: req.Quantity,
				}
			}
		case model.MovementAjuste:
			newStock = req.Quantity
		}

		if err := s.productRepo.UpdateStockTx(tx, productID, newStock); err != nil {
			return err
		}

		performedBy := actorID
		movement = &model.StockMovement{
			ProductID:    productID,
			MovementType: req.MovementType,
			Quantity:     req.Quantity,
			Reason:       req.Reason,
			Reference:    req.Reference,
			PerformedBy:  &performedBy,
		}
		if err := s.movRepo.CreateTx(tx, movement); err != nil {
			return err
		}

		product.StockQuantity = newStock
		updated = product
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}
	s.evictCachedCode(ctx, updated.Code)
	return movement, updated, nil
}

func (s *stockService) DebitarVentaTx(tx *gorm.DB, productID uuid.UUID, quantity int, reference string, actorID uuid.UUID) error {
	if quantity <= 0 {
		return domain.NewValidation("quantity", "la cantidad debe ser mayor a cero")
	}

	product, err := s.productRepo.FindByIDForUpdate(tx, productID)
	if err != nil {
		return domain.ErrNotFound
	}

	newStock := product.StockQuantity - quantity
	if newStock < 0 {
		return &domain.InsufficientStockError{
			Product:   product.Name,
			Available: product.StockQuantity,
			Requested: quantity,
		}
	}

	if err := s.productRepo.UpdateStockTx(tx, productID, newStock); err != nil {
		return err
	}

	reason := fmt.Sprintf("Orden de servicio %s", reference)
	performedBy := actorID
	ref := reference
	if err := s.movRepo.CreateTx(tx, &model.StockMovement{
		ProductID:    productID,
		MovementType: model.MovementVenta,
		Quantity:     quantity,
		Reason:       &reason,
		Reference:    &ref,
		PerformedBy:  &performedBy,
	}); err != nil {
		return err
	}
	s.evictCachedCode(context.Background(), product.Code)
	return nil
}

func (s *stockService) ListMovimientos(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	repoFilter := repository.StockMovementFilter{
		MovementType: filter.MovementType,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, domain.NewValidation("producto", "id inválido")
		}
		repoFilter.ProductID = &pid
	}

	movements, total, err := s.movRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, MovementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// MovementToResponse maps a StockMovement to its API representation.
func MovementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:           m.ID.String(),
		ProductID:    m.ProductID.String(),
		MovementType: m.MovementType,
		Quantity:     m.Quantity,
		Reason:       m.Reason,
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.PerformedBy != nil {
		s := m.PerformedBy.String()
		resp.PerformedBy = &s
	}
	return resp
}
