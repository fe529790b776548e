package repository

import (
	"context"

	"shalom/internal/dto"
	"shalom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	// Delete removes the customer and, by FK cascade, all of its vehicles.
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context) (*dto.CustomerStatsResponse, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("Vehicles").First(&c, id).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			like, like, like, like)
	}
	switch filter.IsActive {
	case "false":
		q = q.Where("is_active = false")
	case "all":
	default:
		q = q.Where("is_active = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Vehicles").
		Order("last_name ASC, first_name ASC").
		Limit(filter.Limit).Offset(offset).
		Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Vehicles").Delete(&model.Customer{ID: id}).Error
}

func (r *customerRepo) Statistics(ctx context.Context) (*dto.CustomerStatsResponse, error) {
	var stats dto.CustomerStatsResponse

	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Customer{}).Where("is_active = true").Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Customer{}).Where("is_active = false").Count(&stats.TotalInactive).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Vehicle{}).Where("is_active = true").Count(&stats.TotalVehicles).Error; err != nil {
		return nil, err
	}
	err := db.Model(&model.Vehicle{}).
		Select("COUNT(*)").
		Group("customer_id").
		Having("COUNT(*) > 1").
		Count(&stats.CustomersWithMultipleVehicles).Error
	return &stats, err
}
