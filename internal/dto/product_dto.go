package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/productos.
type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"categoria"`
	IsActive string `form:"activo"` // "true" (default) | "false" | "all"
	LowStock bool   `form:"bajo_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CreateProductRequest struct {
	Code          string          `json:"code"           validate:"required"`
	Name          string          `json:"name"           validate:"required"`
	Category      string          `json:"category"       validate:"required"`
	Brand         *string         `json:"brand"`
	Description   *string         `json:"description"`
	Unit          string          `json:"unit"           validate:"required,oneof=LITRO UNIDAD PACK"`
	MinStock      int             `json:"min_stock"      validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required,gt=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Brand         *string          `json:"brand"`
	Description   *string          `json:"description"`
	Unit          string           `json:"unit"           validate:"omitempty,oneof=LITRO UNIDAD PACK"`
	MinStock      *int             `json:"min_stock"      validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,gt=0"`
	SalePrice     *decimal.Decimal `json:"sale_price"     validate:"omitempty,gt=0"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Brand         *string         `json:"brand"`
	Description   *string         `json:"description"`
	Unit          string          `json:"unit"`
	StockQuantity int             `json:"stock_quantity"`
	MinStock      int             `json:"min_stock"`
	IsLowStock    bool            `json:"is_low_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type CategoryResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
