package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. CurrentStock > 0
// genera el asiento inicial "Initial stock" en el libro.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	Category      string          `json:"category" validate:"required"`
	ImageURL      string          `json:"image_url"`
	CurrentStock  int             `json:"current_stock" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest entrada para el update genérico. No acepta stock:
// todo cambio de cantidad pasa por /stock para quedar auditado en el libro.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category" validate:"omitempty,min=1"`
	ImageURL      *string          `json:"image_url"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
}

// UpdateStockRequest entrada para fijar la cantidad de un producto.
type UpdateStockRequest struct {
	NewQuantity int    `json:"new_quantity" validate:"min=0"`
	Reason      string `json:"reason" validate:"required,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	ImageURL      string          `json:"image_url,omitempty"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CreatedBy     string          `json:"created_by"`
}

// ProductListResponse lista de productos (orden por nombre ascendente).
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
