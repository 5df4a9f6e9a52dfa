package dto

import "time"

// StockTransactionResponse salida de un asiento del libro de stock.
type StockTransactionResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"` // ADD, REMOVE, ADJUST
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	PerformedBy   string    `json:"performed_by"`
	PerformedAt   time.Time `json:"performed_at"`
}

// StockHistoryResponse historial de un producto, del más reciente al más antiguo.
type StockHistoryResponse struct {
	ProductID string                     `json:"product_id"`
	Items     []StockTransactionResponse `json:"items"`
}
