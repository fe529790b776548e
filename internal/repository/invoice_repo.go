package repository

import (
	"context"

	"shalom/internal/dto"
	"shalom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error)
	Update(ctx context.Context, inv *model.Invoice) error
	Statistics(ctx context.Context) (*dto.InvoiceStatsResponse, error)
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("ServiceOrder").
		Preload("Customer").
		First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("service_order_id = ?", orderID).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('invoices_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DateFrom != "" {
		q = q.Where("DATE(issue_date) >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("DATE(issue_date) <= ?", filter.DateTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("ServiceOrder").Preload("Customer").
		Order("issue_date DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Omit("ServiceOrder", "Customer").Save(inv).Error
}

func (r *invoiceRepo) Statistics(ctx context.Context) (*dto.InvoiceStatsResponse, error) {
	var stats dto.InvoiceStatsResponse
	db := r.db.WithContext(ctx).Model(&model.Invoice{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalInvoices).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.InvoiceIssued).Count(&stats.Issued).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.InvoicePaid).Count(&stats.Paid).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.InvoiceCancelled).Count(&stats.Cancelled).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("status IN ?", []string{model.InvoiceIssued, model.InvoicePaid}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalBilled).Error; err != nil {
		return nil, err
	}
	err := db.Session(&gorm.Session{}).
		Where("status = ?", model.InvoicePaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalCollected).Error
	return &stats, err
}
