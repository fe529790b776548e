package repository

import (
	"context"

	"shalom/internal/dto"
	"shalom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	// FindByPlate expects an already-normalized plate (uppercase, no spaces).
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]model.Vehicle, error)
	List(ctx context.Context, filter dto.VehicleFilter) ([]model.Vehicle, int64, error)
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleRepo struct{ db *gorm.DB }

func NewVehicleRepository(db *gorm.DB) VehicleRepository { return &vehicleRepo{db: db} }

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Preload("Customer").First(&v, id).Error
	return &v, err
}

func (r *vehicleRepo) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Preload("Customer").Where("plate = ?", plate).First(&v).Error
	return &v, err
}

func (r *vehicleRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepo) List(ctx context.Context, filter dto.VehicleFilter) ([]model.Vehicle, int64, error) {
	var vehicles []model.Vehicle
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Joins("LEFT JOIN customers ON customers.id = vehicles.customer_id")

	if filter.Plate != "" {
		q = q.Where("vehicles.plate ILIKE ?", "%"+filter.Plate+"%")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"vehicles.plate ILIKE ? OR vehicles.brand ILIKE ? OR vehicles.model ILIKE ? OR customers.first_name ILIKE ? OR customers.last_name ILIKE ?",
			like, like, like, like, like)
	}
	if filter.CustomerID != "" {
		q = q.Where("vehicles.customer_id = ?", filter.CustomerID)
	}
	switch filter.IsActive {
	case "false":
		q = q.Where("vehicles.is_active = false")
	case "all":
	default:
		q = q.Where("vehicles.is_active = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").
		Order("vehicles.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&vehicles).Error
	return vehicles, total, err
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Vehicle{}, id).Error
}
