package dto

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerFilter struct {
	Search   string `form:"search"`
	IsActive string `form:"activo"` // "true" (default) | "false" | "all"
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Phone     string  `json:"phone"      validate:"required"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
	IsActive  *bool   `json:"is_active"`
}

type CustomerResponse struct {
	ID        string            `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	FullName  string            `json:"full_name"`
	Phone     string            `json:"phone"`
	Email     *string           `json:"email"`
	Address   *string           `json:"address"`
	City      *string           `json:"city"`
	Notes     *string           `json:"notes"`
	IsActive  bool              `json:"is_active"`
	Vehicles  []VehicleResponse `json:"vehicles,omitempty"`
	CreatedAt string            `json:"created_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type CustomerStatsResponse struct {
	TotalCustomers                int64 `json:"total_customers"`
	TotalInactive                 int64 `json:"total_inactive"`
	TotalVehicles                 int64 `json:"total_vehicles"`
	CustomersWithMultipleVehicles int64 `json:"customers_with_multiple_vehicles"`
}

// ─── Vehicles ────────────────────────────────────────────────────────────────

type VehicleFilter struct {
	Plate      string `form:"patente"`
	Search     string `form:"search"`
	CustomerID string `form:"cliente" validate:"omitempty,uuid"`
	IsActive   string `form:"activo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CreateVehicleRequest struct {
	Plate      string  `json:"plate"       validate:"required"`
	Brand      string  `json:"brand"       validate:"required"`
	Model      string  `json:"model"       validate:"required"`
	Year       *int    `json:"year"        validate:"omitempty,min=1900,max=2100"`
	Color      *string `json:"color"`
	EngineType *string `json:"engine_type"`
	VIN        *string `json:"vin"         validate:"omitempty,len=17"`
	Mileage    int     `json:"current_mileage" validate:"min=0"`
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	Notes      *string `json:"notes"`
}

type UpdateVehicleRequest struct {
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	Year       *int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Color      *string `json:"color"`
	EngineType *string `json:"engine_type"`
	VIN        *string `json:"vin"  validate:"omitempty,len=17"`
	Mileage    *int    `json:"current_mileage" validate:"omitempty,min=0"`
	Notes      *string `json:"notes"`
	IsActive   *bool   `json:"is_active"`
}

type UpdateMileageRequest struct {
	Mileage int `json:"current_mileage" validate:"min=0"`
}

type VehicleResponse struct {
	ID           string  `json:"id"`
	Plate        string  `json:"plate"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         *int    `json:"year"`
	Color        *string `json:"color"`
	EngineType   *string `json:"engine_type"`
	VIN          *string `json:"vin"`
	Mileage      int     `json:"current_mileage"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	Notes        *string `json:"notes"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

type VehicleListResponse struct {
	Data  []VehicleResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
