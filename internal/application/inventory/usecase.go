// Package inventory implementa el coordinador de mutación de stock: la única
// ruta sancionada para cambiar la cantidad de un producto, manteniendo el
// estado del producto consistente con el libro append-only.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gp-0001/n-surgicals/internal/application/dto"
	"github.com/gp-0001/n-surgicals/internal/domain"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
	"github.com/gp-0001/n-surgicals/pkg/logger"
)

// initialStockReason es el motivo del asiento ADD que se sintetiza cuando un
// producto nace con stock > 0.
const initialStockReason = "Initial stock"

// maxStockRetries acota los reintentos ante conflicto de versión. No es un
// retry automático de fallos de I/O: un fallo del store se propaga al caller.
const maxStockRetries = 3

// UseCase coordina productos y libro de stock.
type UseCase struct {
	txRunner TxRunner
	products repository.ProductRepository
	ledger   repository.StockTransactionRepository
	reports  ReportGenerator
	log      *logger.Logger
}

// NewUseCase construye el coordinador.
func NewUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	ledger repository.StockTransactionRepository,
	reports ReportGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{txRunner: txRunner, products: products, ledger: ledger, reports: reports, log: log}
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// ListProducts devuelve el catálogo completo ordenado por nombre ascendente.
// Cada llamada produce un snapshot fresco.
func (uc *UseCase) ListProducts() (*dto.ProductListResponse, error) {
	products, err := uc.products.List()
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return toProductListResponse(products), nil
}

// GetProduct devuelve un producto o ErrNotFound.
func (uc *UseCase) GetProduct(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// LowStock filtra el catálogo a los productos con CurrentStock <= MinStockLevel.
// Es puramente derivado: no hay estado almacenado de "bajo mínimo".
func (uc *UseCase) LowStock() (*dto.ProductListResponse, error) {
	products, err := uc.lowStockProducts()
	if err != nil {
		return nil, err
	}
	return toProductListResponse(products), nil
}

func (uc *UseCase) lowStockProducts() ([]*entity.Product, error) {
	products, err := uc.products.List()
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	var low []*entity.Product
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// StockHistory devuelve el libro de un producto del asiento más reciente al
// más antiguo. Un producto sin asientos (o ya eliminado) da un historial vacío.
func (uc *UseCase) StockHistory(productID string) (*dto.StockHistoryResponse, error) {
	txs, err := uc.ledger.ListByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	out := &dto.StockHistoryResponse{
		ProductID: productID,
		Items:     make([]dto.StockTransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		out.Items = append(out.Items, toTransactionResponse(tx))
	}
	return out, nil
}

// LowStockReportPDF genera el PDF del reporte de productos bajo mínimo.
func (uc *UseCase) LowStockReportPDF(_ context.Context) ([]byte, error) {
	low, err := uc.lowStockProducts()
	if err != nil {
		return nil, err
	}
	pdf, err := uc.reports.LowStockReport(time.Now(), low)
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return pdf, nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// AddProduct valida e inserta un producto nuevo y, si nace con stock > 0,
// sintetiza el asiento ADD inicial en la misma transacción. Devuelve el id
// asignado por el store.
func (uc *UseCase) AddProduct(ctx context.Context, in dto.CreateProductRequest, actorID string) (string, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return "", domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinStockLevel < 0 || in.UnitPrice.IsNegative() {
		return "", domain.ErrInvalidInput
	}

	product := &entity.Product{
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		ImageURL:      in.ImageURL,
		CurrentStock:  in.CurrentStock,
		MinStockLevel: in.MinStockLevel,
		UnitPrice:     in.UnitPrice,
		CreatedBy:     actorID,
	}

	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		ledger repository.StockTransactionRepository,
	) error {
		if err := products.Create(product); err != nil {
			return err
		}
		if in.CurrentStock > 0 {
			return ledger.Create(&entity.StockTransaction{
				ProductID:     product.ID,
				Type:          entity.TransactionTypeAdd,
				Quantity:      in.CurrentStock,
				PreviousStock: 0,
				NewStock:      in.CurrentStock,
				Reason:        initialStockReason,
				PerformedBy:   actorID,
			})
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("name", in.Name).Msg("crear producto")
		return "", err
	}

	uc.log.Info().Str("product_id", product.ID).Str("actor", actorID).Msg("producto creado")
	return product.ID, nil
}

// UpdateProduct fusiona los campos generales del producto y refresca
// updated_at. No acepta cantidad: los cambios de stock van exclusivamente por
// UpdateStock para quedar auditados.
func (uc *UseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest, actorID string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Category = *in.Category
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitPrice = *in.UnitPrice
	}

	if err := uc.products.Update(product); err != nil {
		uc.log.Error().Err(err).Str("product_id", id).Msg("actualizar producto")
		return nil, err
	}
	uc.log.Info().Str("product_id", id).Str("actor", actorID).Msg("producto actualizado")
	return toProductResponse(product), nil
}

// UpdateStock fija la cantidad de un producto y registra el asiento
// correspondiente (ADD/REMOVE/ADJUST) en la misma transacción. La escritura
// del producto es condicional a la versión leída al inicio; ante conflicto se
// reintenta el ciclo completo un número acotado de veces.
//
// Un delta cero sigue registrando un asiento ADJUST con cantidad 0: la
// auditoría también cubre los no-op.
func (uc *UseCase) UpdateStock(ctx context.Context, productID string, in dto.UpdateStockRequest, actorID string) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NewQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	for attempt := 1; attempt <= maxStockRetries; attempt++ {
		product, err := uc.products.GetByID(productID)
		if err != nil {
			return nil, fmt.Errorf("leer producto: %w", err)
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}

		delta := in.NewQuantity - product.CurrentStock
		txType := entity.TransactionTypeAdjust
		quantity := delta
		switch {
		case delta > 0:
			txType = entity.TransactionTypeAdd
		case delta < 0:
			txType = entity.TransactionTypeRemove
			quantity = -delta
		}

		err = uc.txRunner.Run(ctx, func(
			products repository.ProductRepository,
			ledger repository.StockTransactionRepository,
		) error {
			affected, err := products.UpdateStockVersioned(productID, in.NewQuantity, product.Version)
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrConflict
			}
			return ledger.Create(&entity.StockTransaction{
				ProductID:     productID,
				Type:          txType,
				Quantity:      quantity,
				PreviousStock: product.CurrentStock,
				NewStock:      in.NewQuantity,
				Reason:        in.Reason,
				PerformedBy:   actorID,
			})
		})
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Debug().
				Str("product_id", productID).
				Int("attempt", attempt).
				Msg("conflicto de versión al escribir stock, reintentando")
			continue
		}
		if err != nil {
			uc.log.Error().Err(err).Str("product_id", productID).Msg("escribir stock")
			return nil, err
		}

		updated, err := uc.products.GetByID(productID)
		if err != nil {
			return nil, fmt.Errorf("releer producto: %w", err)
		}
		uc.log.Info().
			Str("product_id", productID).
			Str("type", txType).
			Int("previous", product.CurrentStock).
			Int("new", in.NewQuantity).
			Str("actor", actorID).
			Msg("stock actualizado")
		return toProductResponse(updated), nil
	}

	uc.log.Warn().Str("product_id", productID).Msg("reintentos de stock agotados")
	return nil, domain.ErrConflict
}

// DeleteProduct elimina el producto y todos sus asientos como una sola unidad
// atómica; no puede quedar producto sin libro ni libro huérfano.
func (uc *UseCase) DeleteProduct(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		ledger repository.StockTransactionRepository,
	) error {
		if err := ledger.DeleteByProduct(id); err != nil {
			return err
		}
		affected, err := products.Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Error().Err(err).Str("product_id", id).Msg("eliminar producto")
		}
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado con su historial")
	return nil
}

// ── Mapeos ────────────────────────────────────────────────────────────────────

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		UnitPrice:     p.UnitPrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

func toProductListResponse(products []*entity.Product) *dto.ProductListResponse {
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	out.Total = len(out.Items)
	return out
}

func toTransactionResponse(tx *entity.StockTransaction) dto.StockTransactionResponse {
	return dto.StockTransactionResponse{
		ID:            tx.ID,
		ProductID:     tx.ProductID,
		Type:          tx.Type,
		Quantity:      tx.Quantity,
		PreviousStock: tx.PreviousStock,
		NewStock:      tx.NewStock,
		Reason:        tx.Reason,
		PerformedBy:   tx.PerformedBy,
		PerformedAt:   tx.PerformedAt,
	}
}
