package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación del libro de stock sobre PostgreSQL
// (usable con pool o tx). Los asientos son inmutables: no existe Update.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta un asiento. Asigna id si viene vacío y deja que el store
// ponga performed_at (now() del servidor) salvo que ya venga fijado.
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	var performedAt any
	if !tx.PerformedAt.IsZero() {
		performedAt = tx.PerformedAt
	}
	query := `
		INSERT INTO stock_transactions (id, product_id, type, quantity, previous_stock, new_stock, reason, performed_by, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
		RETURNING performed_at`
	err := r.q.QueryRow(context.Background(), query,
		tx.ID, tx.ProductID, tx.Type, tx.Quantity, tx.PreviousStock, tx.NewStock,
		tx.Reason, nullable(tx.PerformedBy), performedAt,
	).Scan(&tx.PerformedAt)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// ListByProduct devuelve los asientos del producto del más reciente al más
// antiguo; slice vacío si no hay ninguno.
func (r *StockTransactionRepo) ListByProduct(productID string) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, product_id, type, quantity, previous_stock, new_stock, reason, COALESCE(performed_by, ''), performed_at
		FROM stock_transactions
		WHERE product_id = $1
		ORDER BY performed_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockTransaction, 0)
	for rows.Next() {
		var tx entity.StockTransaction
		if err := rows.Scan(
			&tx.ID, &tx.ProductID, &tx.Type, &tx.Quantity, &tx.PreviousStock,
			&tx.NewStock, &tx.Reason, &tx.PerformedBy, &tx.PerformedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &tx)
	}
	return list, rows.Err()
}

// DeleteByProduct borra todos los asientos del producto (cascada del coordinador).
func (r *StockTransactionRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_transactions WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete stock transactions: %w", err)
	}
	return nil
}
