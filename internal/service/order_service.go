package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest, actorID uuid.UUID) (*model.ServiceOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*model.ServiceOrder, error)
	AddItem(ctx context.Context, orderID uuid.UUID, req dto.OrderItemRequest) (*model.ServiceOrder, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.ServiceOrder, error)
	Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*model.ServiceOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	Statistics(ctx context.Context) (*dto.OrderStatsResponse, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	vehicleRepo repository.VehicleRepository
	productRepo repository.ProductRepository
	stock       StockService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	vehicleRepo repository.VehicleRepository,
	productRepo repository.ProductRepository,
	stock StockService,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		vehicleRepo: vehicleRepo,
		productRepo: productRepo,
		stock:       stock,
	}
}

// buildItem validates and normalizes one line item. For PRODUCT items that
// reference a catalog product, description defaults to the product name and
// a zero unit price defaults to the product's sale price. Subtotal is always
// quantity * unit_price.
func (s *orderService) buildItem(ctx context.Context, req dto.OrderItemRequest) (*model.ServiceItem, error) {
	item := &model.ServiceItem{
		ItemType:    req.ItemType,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}

	switch req.ItemType {
	case model.ItemProduct:
		if req.ProductID == nil {
			return nil, domain.NewValidation("product_id", "los items de producto requieren un producto")
		}
		pid, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, domain.NewValidation("product_id", "id inválido")
		}
		product, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewValidation("product_id", "producto no encontrado")
			}
			return nil, err
		}
		item.ProductID = &pid
		if item.Description == "" {
			item.Description = product.Name
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.SalePrice
		}
	case model.ItemService:
		if req.ProductID != nil {
			return nil, domain.NewValidation("product_id", "los items de servicio no llevan producto")
		}
		if item.Description == "" {
			return nil, domain.NewValidation("description", "la descripción es obligatoria")
		}
	default:
		return nil, domain.NewValidation("item_type", "tipo de item desconocido")
	}

	item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return item, nil
}

func sumItems(items []model.ServiceItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal)
	}
	return total
}

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest, actorID uuid.UUID) (*model.ServiceOrder, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, domain.NewValidation("vehicle_id", "id inválido")
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// The customer defaults to the vehicle's owner; an explicit customer
	// must still own the vehicle.
	customerID := vehicle.CustomerID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, domain.NewValidation("customer_id", "id inválido")
		}
		if cid != vehicle.CustomerID {
			return nil, domain.NewValidation("customer_id", "el cliente no es dueño del vehículo")
		}
		customerID = cid
	}

	items := make([]model.ServiceItem, 0, len(req.Items))
	for _, ir := range req.Items {
		item, err := s.buildItem(ctx, ir)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	createdBy := actorID
	order := &model.ServiceOrder{
		VehicleID:    vehicleID,
		CustomerID:   customerID,
		Status:       model.OrderPending,
		Observations: req.Observations,
		Total:        sumItems(items),
		CreatedBy:    &createdBy,
		Items:        items,
	}

	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		seq, err := s.orderRepo.NextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("OS-%05d", seq)
		return s.orderRepo.CreateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("vehicle_id", vehicleID.String()).
		Msg("service order created")
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Plate != "" {
		filter.Plate = NormalizePlate(filter.Plate)
	}
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, OrderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Update is allowed only while the order is PENDING. A non-nil Items slice
// replaces the whole item set.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*model.ServiceOrder, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &domain.InvalidStateError{Entity: "orden", Current: order.Status, Attempted: "modificar"}
	}

	if req.Observations != nil {
		order.Observations = *req.Observations
	}

	var newItems []model.ServiceItem
	if req.Items != nil {
		newItems = make([]model.ServiceItem, 0, len(req.Items))
		for _, ir := range req.Items {
			item, err := s.buildItem(ctx, ir)
			if err != nil {
				return nil, err
			}
			item.ServiceOrderID = order.ID
			newItems = append(newItems, *item)
		}
	}

	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		if req.Items != nil {
			if err := s.orderRepo.DeleteItemsByOrderTx(tx, order.ID); err != nil {
				return err
			}
			for i := range newItems {
				if err := s.orderRepo.CreateItemTx(tx, &newItems[i]); err != nil {
					return err
				}
			}
			order.Items = newItems
			order.Total = sumItems(newItems)
		}
		return s.orderRepo.UpdateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func (s *orderService) AddItem(ctx context.Context, orderID uuid.UUID, req dto.OrderItemRequest) (*model.ServiceOrder, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &domain.InvalidStateError{Entity: "orden", Current: order.Status, Attempted: "agregar item"}
	}

	item, err := s.buildItem(ctx, req)
	if err != nil {
		return nil, err
	}
	item.ServiceOrderID = order.ID

	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.CreateItemTx(tx, item); err != nil {
			return err
		}
		order.Items = append(order.Items, *item)
		order.Total = sumItems(order.Items)
		return s.orderRepo.UpdateTotalTx(tx, order.ID, order.Total)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.ServiceOrder, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &domain.InvalidStateError{Entity: "orden", Current: order.Status, Attempted: "quitar item"}
	}

	idx := -1
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.DeleteItemTx(tx, itemID); err != nil {
			return err
		}
		order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
		order.Total = sumItems(order.Items)
		return s.orderRepo.UpdateTotalTx(tx, order.ID, order.Total)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

// Complete transitions a PENDING order to COMPLETED and debits stock for
// every PRODUCT item in the same transaction. Any shortfall aborts the whole
// completion: the order stays PENDING and no stock moves.
func (s *orderService) Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*model.ServiceOrder, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &domain.InvalidStateError{Entity: "orden", Current: order.Status, Attempted: "completar"}
	}

	now := time.Now()
	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]
			if item.ItemType != model.ItemProduct || item.ProductID == nil {
				continue
			}
			if err := s.stock.DebitarVentaTx(tx, *item.ProductID, item.Quantity, order.OrderNumber, actorID); err != nil {
				return err
			}
		}
		return s.orderRepo.UpdateStatusTx(tx, order.ID, model.OrderCompleted, &now)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			// A concurrent transition won the status update; every debit
			// in this transaction was rolled back.
			return nil, s.concurrentStateErr(ctx, id, "completar")
		}
		return nil, txErr
	}

	order.Status = model.OrderCompleted
	order.CompletedAt = &now
	log.Info().Str("order_number", order.OrderNumber).Msg("service order completed")
	return order, nil
}

// Cancel transitions a PENDING order to CANCELLED. No stock moves: nothing
// was debited yet.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &domain.InvalidStateError{Entity: "orden", Current: order.Status, Attempted: "cancelar"}
	}

	txErr := s.orderRepo.Transact(ctx, func(tx *gorm.DB) error {
		return s.orderRepo.UpdateStatusTx(tx, order.ID, model.OrderCancelled, nil)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, s.concurrentStateErr(ctx, id, "cancelar")
		}
		return nil, txErr
	}
	order.Status = model.OrderCancelled
	return order, nil
}

// concurrentStateErr reports the status that beat us to the order when the
// guarded update matched no rows.
func (s *orderService) concurrentStateErr(ctx context.Context, id uuid.UUID, attempted string) error {
	current := "desconocido"
	if fresh, err := s.orderRepo.FindByID(ctx, id); err == nil {
		current = fresh.Status
	}
	return &domain.InvalidStateError{Entity: "orden", Current: current, Attempted: attempted}
}

func (s *orderService) Statistics(ctx context.Context) (*dto.OrderStatsResponse, error) {
	return s.orderRepo.Statistics(ctx)
}

func OrderToResponse(o *model.ServiceOrder) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		VehicleID:    o.VehicleID.String(),
		CustomerID:   o.CustomerID.String(),
		Status:       o.Status,
		Observations: o.Observations,
		Total:        o.Total,
		Items:        make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
	if o.Vehicle != nil {
		resp.Plate = o.Vehicle.Plate
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.FullName()
	}
	if o.CompletedAt != nil {
		s := o.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	for i := range o.Items {
		item := &o.Items[i]
		ir := dto.OrderItemResponse{
			ID:          item.ID.String(),
			ItemType:    item.ItemType,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		if item.ProductID != nil {
			s := item.ProductID.String()
			ir.ProductID = &s
		}
		if item.Product != nil {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
