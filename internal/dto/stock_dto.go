package dto

// CreateMovementRequest creates a stock movement for a product.
// For COMPRA/VENTA quantity is a positive delta; for AJUSTE it is the
// absolute target stock level (>= 0).
type CreateMovementRequest struct {
	ProductID    string  `json:"product_id"    validate:"required,uuid"`
	MovementType string  `json:"movement_type" validate:"required,oneof=COMPRA VENTA AJUSTE"`
	Quantity     int     `json:"quantity"      validate:"min=0"`
	Reason       *string `json:"reason"`
	Reference    *string `json:"reference"`
}

// MovementFilter is bound from the query string of GET /v1/stock/movimientos.
type MovementFilter struct {
	ProductID    string `form:"producto"`
	MovementType string `form:"tipo" validate:"omitempty,oneof=COMPRA VENTA AJUSTE"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	MovementType string  `json:"movement_type"`
	Quantity     int     `json:"quantity"`
	Reason       *string `json:"reason"`
	Reference    *string `json:"reference"`
	PerformedBy  *string `json:"performed_by"`
	CreatedAt    string  `json:"created_at"`
}

// CreateMovementResponse returns the movement plus the updated product,
// so the caller sees the new stock level without a second request.
type CreateMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Product  ProductResponse  `json:"product"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
