package entity

import "time"

// Tipos de transacción de stock (value object conceptual).
const (
	TransactionTypeAdd    = "ADD"    // entrada: NewStock = PreviousStock + Quantity
	TransactionTypeRemove = "REMOVE" // salida: NewStock = PreviousStock - Quantity
	TransactionTypeAdjust = "ADJUST" // delta cero: NewStock = PreviousStock, Quantity = 0
)

// StockTransaction es un asiento inmutable del libro de stock. Nunca se
// actualiza; solo se borra en cascada junto con su producto.
type StockTransaction struct {
	ID            string
	ProductID     string
	Type          string // ADD, REMOVE, ADJUST
	Quantity      int    // magnitud del cambio, >= 0
	PreviousStock int
	NewStock      int
	Reason        string // no vacío
	PerformedBy   string // UID del perfil
	PerformedAt   time.Time
}
