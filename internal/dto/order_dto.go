package dto

import "github.com/shopspring/decimal"

// OrderFilter is bound from the query string of GET /v1/ordenes.
type OrderFilter struct {
	Status     string           `form:"estado" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED all"`
	Plate      string           `form:"patente"`
	CustomerID string           `form:"cliente" validate:"omitempty,uuid"`
	DateFrom   string           `form:"desde"` // YYYY-MM-DD
	DateTo     string           `form:"hasta"`
	TotalMin   *decimal.Decimal `form:"total_min"`
	TotalMax   *decimal.Decimal `form:"total_max"`
	Page       int              `form:"page,default=1"   validate:"min=1"`
	Limit      int              `form:"limit,default=20" validate:"min=1,max=100"`
}

// OrderItemRequest is a line item. For PRODUCT items with a product_id,
// description defaults to the product name and unit_price to its sale price.
type OrderItemRequest struct {
	ItemType    string          `json:"item_type"   validate:"required,oneof=PRODUCT SERVICE"`
	ProductID   *string         `json:"product_id"  validate:"omitempty,uuid"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"    validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

type CreateOrderRequest struct {
	VehicleID    string             `json:"vehicle_id"   validate:"required,uuid"`
	CustomerID   *string            `json:"customer_id"  validate:"omitempty,uuid"`
	Observations string             `json:"observations"`
	Items        []OrderItemRequest `json:"items"        validate:"dive"`
}

// UpdateOrderRequest replaces observations and (when Items is non-nil) the
// whole item set. Allowed only while the order is PENDING.
type UpdateOrderRequest struct {
	Observations *string            `json:"observations"`
	Items        []OrderItemRequest `json:"items" validate:"omitempty,dive"`
}

type OrderItemResponse struct {
	ID          string          `json:"id"`
	ItemType    string          `json:"item_type"`
	ProductID   *string         `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	VehicleID    string              `json:"vehicle_id"`
	Plate        string              `json:"plate,omitempty"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name,omitempty"`
	Status       string              `json:"status"`
	Observations string              `json:"observations"`
	Total        decimal.Decimal     `json:"total"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    string              `json:"created_at"`
	CompletedAt  *string             `json:"completed_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderStatsResponse struct {
	TotalOrders  int64           `json:"total_orders"`
	Pending      int64           `json:"pending"`
	Completed    int64           `json:"completed"`
	Cancelled    int64           `json:"cancelled"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
