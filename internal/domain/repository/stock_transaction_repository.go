package repository

import "github.com/gp-0001/n-surgicals/internal/domain/entity"

// StockTransactionRepository define el puerto del libro de stock (append-only).
type StockTransactionRepository interface {
	// Create inserta un asiento inmutable; el store asigna ID y PerformedAt
	// si vienen vacíos.
	Create(tx *entity.StockTransaction) error
	// ListByProduct devuelve los asientos del producto del más reciente al
	// más antiguo; slice vacío si no hay ninguno.
	ListByProduct(productID string) ([]*entity.StockTransaction, error)
	// DeleteByProduct borra todos los asientos del producto. Solo lo invoca
	// la cascada del coordinador, nunca la lógica de aplicación directa.
	DeleteByProduct(productID string) error
}
