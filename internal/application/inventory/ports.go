package inventory

import (
	"context"
	"time"

	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la primitiva de batch atómico del
// coordinador: la escritura del producto y el asiento del libro comitean
// juntos o no comitea ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		ledger repository.StockTransactionRepository,
	) error) error
}

// ReportGenerator produce la representación PDF del reporte de stock bajo
// mínimo. Lo implementa infrastructure/pdf.
type ReportGenerator interface {
	LowStockReport(generatedAt time.Time, products []*entity.Product) ([]byte, error)
}
