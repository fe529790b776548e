package repository

import (
	"context"
	"time"

	"shalom/internal/dto"
	"shalom/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository is the data access contract for service orders and their
// line items. Mutating methods that must share a transaction with stock
// debits take the tx instance explicitly.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.ServiceOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error)

	// NextOrderNumber draws from the service_orders_numero_seq sequence —
	// numbers are strictly increasing and never reused.
	NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error)

	UpdateTx(tx *gorm.DB, o *model.ServiceOrder) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, completedAt *time.Time) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error

	CreateItemTx(tx *gorm.DB, item *model.ServiceItem) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	DeleteItemsByOrderTx(tx *gorm.DB, orderID uuid.UUID) error
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.ServiceItem, error)

	Statistics(ctx context.Context) (*dto.OrderStatsResponse, error)

	// Transact runs fn inside a database transaction. fn receives the tx
	// instance to pass down to the Tx-suffixed methods.
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.ServiceOrder) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Vehicle").
		Preload("Customer").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('service_orders_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	var orders []model.ServiceOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ServiceOrder{}).
		Joins("LEFT JOIN vehicles ON vehicles.id = service_orders.vehicle_id")

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("service_orders.status = ?", filter.Status)
	}
	if filter.Plate != "" {
		q = q.Where("vehicles.plate ILIKE ?", "%"+filter.Plate+"%")
	}
	if filter.CustomerID != "" {
		q = q.Where("service_orders.customer_id = ?", filter.CustomerID)
	}
	if filter.DateFrom != "" {
		q = q.Where("DATE(service_orders.created_at) >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("DATE(service_orders.created_at) <= ?", filter.DateTo)
	}
	if filter.TotalMin != nil {
		q = q.Where("service_orders.total >= ?", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		q = q.Where("service_orders.total <= ?", *filter.TotalMax)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Vehicle").Preload("Customer").
		Order("service_orders.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.ServiceOrder) error {
	// Omit associations: items are managed explicitly by the service.
	return tx.Omit("Items", "Vehicle", "Customer").Save(o).Error
}

// UpdateStatusTx moves an order out of PENDING. The status predicate makes
// concurrent transitions safe: whoever loses the race matches zero rows and
// gets ErrRecordNotFound, aborting its transaction.
func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := tx.Model(&model.ServiceOrder{}).
		Where("id = ? AND status = ?", id, model.OrderPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.ServiceOrder{}).Where("id = ?", id).Update("total", total).Error
}

func (r *orderRepo) CreateItemTx(tx *gorm.DB, item *model.ServiceItem) error {
	return tx.Create(item).Error
}

func (r *orderRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.ServiceItem{}, itemID).Error
}

func (r *orderRepo) DeleteItemsByOrderTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Where("service_order_id = ?", orderID).Delete(&model.ServiceItem{}).Error
}

func (r *orderRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.ServiceItem, error) {
	var item model.ServiceItem
	err := r.db.WithContext(ctx).First(&item, itemID).Error
	return &item, err
}

func (r *orderRepo) Statistics(ctx context.Context) (*dto.OrderStatsResponse, error) {
	var stats dto.OrderStatsResponse
	db := r.db.WithContext(ctx).Model(&model.ServiceOrder{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.OrderPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.OrderCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.OrderCancelled).Count(&stats.Cancelled).Error; err != nil {
		return nil, err
	}
	err := db.Session(&gorm.Session{}).
		Where("status = ?", model.OrderCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error
	return &stats, err
}
