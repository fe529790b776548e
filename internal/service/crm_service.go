package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Argentine plates: old format ABC123, new format AB123CD.
var plateRe = regexp.MustCompile(`^[A-Z]{2,3}\d{3}[A-Z]{0,2}$`)

// Phones after normalization: optional +, 9 to 15 digits.
var phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)

type CRMService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actorID uuid.UUID) (*model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	CustomerStatistics(ctx context.Context) (*dto.CustomerStatsResponse, error)

	CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest) (*model.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	ListVehicles(ctx context.Context, filter dto.VehicleFilter) (*dto.VehicleListResponse, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*model.Vehicle, error)
	UpdateMileage(ctx context.Context, id uuid.UUID, req dto.UpdateMileageRequest) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
}

type crmService struct {
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
}

func NewCRMService(customerRepo repository.CustomerRepository, vehicleRepo repository.VehicleRepository) CRMService {
	return &crmService{customerRepo: customerRepo, vehicleRepo: vehicleRepo}
}

// NormalizePlate uppercases and strips spaces: "ab 123 cd" -> "AB123CD".
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	return strings.ReplaceAll(phone, "-", "")
}

// ─── Customers ───────────────────────────────────────────────────────────────

func (s *crmService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actorID uuid.UUID) (*model.Customer, error) {
	phone := NormalizePhone(req.Phone)
	if !phoneRe.MatchString(phone) {
		return nil, domain.NewValidation("phone", fmt.Sprintf("teléfono inválido: %s", phone))
	}

	createdBy := actorID
	c := &model.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		Notes:     req.Notes,
		IsActive:  true,
		CreatedBy: &createdBy,
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *crmService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *crmService) ListCustomers(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, CustomerToResponse(&customers[i], false))
	}
	return &dto.CustomerListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *crmService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		c.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		c.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Phone != "" {
		phone := NormalizePhone(req.Phone)
		if !phoneRe.MatchString(phone) {
			return nil, domain.NewValidation("phone", fmt.Sprintf("teléfono inválido: %s", phone))
		}
		c.Phone = phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.City != nil {
		c.City = req.City
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *crmService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *crmService) CustomerStatistics(ctx context.Context) (*dto.CustomerStatsResponse, error) {
	return s.customerRepo.Statistics(ctx)
}

// ─── Vehicles ────────────────────────────────────────────────────────────────

func (s *crmService) CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest) (*model.Vehicle, error) {
	plate := NormalizePlate(req.Plate)
	if !plateRe.MatchString(plate) {
		return nil, domain.NewValidation("plate", fmt.Sprintf("patente inválida: %s", plate))
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, domain.NewValidation("customer_id", "id inválido")
	}
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	if existing, err := s.vehicleRepo.FindByPlate(ctx, plate); err == nil && existing != nil {
		return nil, domain.NewValidation("plate", fmt.Sprintf("ya existe un vehículo con patente %s", plate))
	}

	v := &model.Vehicle{
		Plate:          plate,
		Brand:          strings.TrimSpace(req.Brand),
		Model:          strings.TrimSpace(req.Model),
		Year:           req.Year,
		Color:          req.Color,
		EngineType:     req.EngineType,
		VIN:            req.VIN,
		CurrentMileage: req.Mileage,
		CustomerID:     customerID,
		Notes:          req.Notes,
		IsActive:       true,
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *crmService) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	v, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *crmService) GetVehicleByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	v, err := s.vehicleRepo.FindByPlate(ctx, NormalizePlate(plate))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *crmService) ListVehicles(ctx context.Context, filter dto.VehicleFilter) (*dto.VehicleListResponse, error) {
	if filter.Plate != "" {
		filter.Plate = NormalizePlate(filter.Plate)
	}
	vehicles, total, err := s.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, VehicleToResponse(&vehicles[i]))
	}
	return &dto.VehicleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *crmService) UpdateVehicle(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*model.Vehicle, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Brand != "" {
		v.Brand = strings.TrimSpace(req.Brand)
	}
	if req.Model != "" {
		v.Model = strings.TrimSpace(req.Model)
	}
	if req.Year != nil {
		v.Year = req.Year
	}
	if req.Color != nil {
		v.Color = req.Color
	}
	if req.EngineType != nil {
		v.EngineType = req.EngineType
	}
	if req.VIN != nil {
		v.VIN = req.VIN
	}
	if req.Mileage != nil {
		v.CurrentMileage = *req.Mileage
	}
	if req.Notes != nil {
		v.Notes = req.Notes
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateMileage rejects readings lower than the stored value. The general
// update endpoint does not; corrections go through there.
func (s *crmService) UpdateMileage(ctx context.Context, id uuid.UUID, req dto.UpdateMileageRequest) (*model.Vehicle, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Mileage < v.CurrentMileage {
		return nil, domain.NewValidation("current_mileage",
			fmt.Sprintf("el kilometraje no puede ser menor al actual (%d)", v.CurrentMileage))
	}
	v.CurrentMileage = req.Mileage
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *crmService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVehicle(ctx, id); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, id)
}

// ─── Mappers ─────────────────────────────────────────────────────────────────

func CustomerToResponse(c *model.Customer, withVehicles bool) dto.CustomerResponse {
	resp := dto.CustomerResponse{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		City:      c.City,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if withVehicles {
		resp.Vehicles = make([]dto.VehicleResponse, 0, len(c.Vehicles))
		for i := range c.Vehicles {
			resp.Vehicles = append(resp.Vehicles, VehicleToResponse(&c.Vehicles[i]))
		}
	}
	return resp
}

func VehicleToResponse(v *model.Vehicle) dto.VehicleResponse {
	resp := dto.VehicleResponse{
		ID:         v.ID.String(),
		Plate:      v.Plate,
		Brand:      v.Brand,
		Model:      v.Model,
		Year:       v.Year,
		Color:      v.Color,
		EngineType: v.EngineType,
		VIN:        v.VIN,
		Mileage:    v.CurrentMileage,
		CustomerID: v.CustomerID.String(),
		Notes:      v.Notes,
		IsActive:   v.IsActive,
		CreatedAt:  v.CreatedAt.Format(time.RFC3339),
	}
	if v.Customer != nil {
		resp.CustomerName = v.Customer.FullName()
	}
	return resp
}
