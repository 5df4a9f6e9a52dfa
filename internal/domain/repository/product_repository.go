package repository

import "github.com/gp-0001/n-surgicals/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las primitivas son crudas: la consistencia producto+libro la garantiza el
// coordinador de stock, no este puerto.
type ProductRepository interface {
	// Create persiste el producto; el store asigna ID y timestamps.
	Create(product *entity.Product) error
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(id string) (*entity.Product, error)
	// List devuelve todos los productos ordenados por nombre ascendente.
	// Cada llamada es un snapshot fresco; no se retiene cursor.
	List() ([]*entity.Product, error)
	// Update escribe los campos generales y refresca updated_at.
	// Nunca toca current_stock ni version.
	Update(product *entity.Product) error
	// UpdateStockVersioned escribe current_stock condicionado a que la fila
	// siga en expectedVersion. Devuelve cuántas filas afectó (0 = conflicto).
	UpdateStockVersioned(id string, newStock int, expectedVersion int64) (int64, error)
	// Delete elimina solo la fila del producto; la cascada del libro es
	// responsabilidad del coordinador.
	Delete(id string) (int64, error)
}
