package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un insumo del catálogo de inventario.
// CurrentStock solo cambia a través del coordinador de stock (nunca por el
// update genérico); Version es el contador de concurrencia optimista.
type Product struct {
	ID            string
	Name          string
	Description   string
	Category      string
	ImageURL      string // opcional
	CurrentStock  int    // invariante: >= 0 siempre
	MinStockLevel int
	UnitPrice     decimal.Decimal
	Version       int64 // incrementa en cada escritura de stock
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string // UID del perfil que lo creó
}

// IsLowStock indica si el producto está en o por debajo de su nivel mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}
