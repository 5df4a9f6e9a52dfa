package inventory_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gp-0001/n-surgicals/internal/application/dto"
	"github.com/gp-0001/n-surgicals/internal/application/inventory"
	"github.com/gp-0001/n-surgicals/internal/domain"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
	"github.com/gp-0001/n-surgicals/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria — mismo contrato que los repos Postgres
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore comparte estado entre los repos fake y el tx runner fake.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	ledger   []*entity.StockTransaction

	// conflicts simula un escritor concurrente: mientras sea > 0, cada
	// escritura condicional de stock encuentra la versión ya avanzada.
	conflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]*entity.Product)}
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Version = 1
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List() ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Category = p.Category
	stored.ImageURL = p.ImageURL
	stored.MinStockLevel = p.MinStockLevel
	stored.UnitPrice = p.UnitPrice
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProductRepo) UpdateStockVersioned(id string, newStock int, expectedVersion int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return 0, nil
	}
	if r.s.conflicts > 0 {
		r.s.conflicts--
		p.Version++
		return 0, nil
	}
	if p.Version != expectedVersion {
		return 0, nil
	}
	p.CurrentStock = newStock
	p.Version++
	p.UpdatedAt = time.Now()
	return 1, nil
}

func (r *fakeProductRepo) Delete(id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return 0, nil
	}
	delete(r.s.products, id)
	return 1, nil
}

type fakeLedgerRepo struct{ s *fakeStore }

func (r *fakeLedgerRepo) Create(tx *entity.StockTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.PerformedAt = time.Now()
	cp := *tx
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *fakeLedgerRepo) ListByProduct(productID string) ([]*entity.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockTransaction
	// Más reciente primero, igual que el repo real
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if r.s.ledger[i].ProductID == productID {
			cp := *r.s.ledger[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) DeleteByProduct(productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.ledger[:0]
	for _, tx := range r.s.ledger {
		if tx.ProductID != productID {
			kept = append(kept, tx)
		}
	}
	r.s.ledger = kept
	return nil
}

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.StockTransactionRepository) error) error {
	return fn(&fakeProductRepo{s: t.s}, &fakeLedgerRepo{s: t.s})
}

type fakeReportGen struct{ calls int }

func (g *fakeReportGen) LowStockReport(_ time.Time, _ []*entity.Product) ([]byte, error) {
	g.calls++
	return []byte("%PDF-1.7 reporte"), nil
}

func newTestUseCase(t *testing.T) (*inventory.UseCase, *fakeStore, *fakeReportGen) {
	t.Helper()
	store := newFakeStore()
	gen := &fakeReportGen{}
	uc := inventory.NewUseCase(
		&fakeTxRunner{s: store},
		&fakeProductRepo{s: store},
		&fakeLedgerRepo{s: store},
		gen,
		logger.Nop(),
	)
	return uc, store, gen
}

func createProduct(t *testing.T, uc *inventory.UseCase, name string, stock, minStock int) string {
	t.Helper()
	id, err := uc.AddProduct(context.Background(), dto.CreateProductRequest{
		Name:          name,
		Category:      "Quirúrgico",
		CurrentStock:  stock,
		MinStockLevel: minStock,
		UnitPrice:     decimal.NewFromFloat(12.50),
	}, "actor-1")
	require.NoError(t, err, "debe crearse el producto de prueba")
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// AddProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_ConStockInicial_SintetizaAsientoADD(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	id := createProduct(t, uc, "Gasa estéril", 150, 10)

	product, err := uc.GetProduct(id)
	require.NoError(t, err)
	assert.Equal(t, 150, product.CurrentStock)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	require.Len(t, history.Items, 1, "stock inicial > 0 debe producir exactamente un asiento")

	tx := history.Items[0]
	assert.Equal(t, entity.TransactionTypeAdd, tx.Type)
	assert.Equal(t, 150, tx.Quantity)
	assert.Equal(t, 0, tx.PreviousStock)
	assert.Equal(t, 150, tx.NewStock)
	assert.Equal(t, "Initial stock", tx.Reason)
	assert.Equal(t, "actor-1", tx.PerformedBy)
}

func TestAddProduct_StockCero_SinAsiento(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	id := createProduct(t, uc, "Bisturí #11", 0, 5)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	assert.Empty(t, history.Items, "stock inicial 0 no genera asiento")
}

func TestAddProduct_EntradaInvalida_NoPersisteNada(t *testing.T) {
	uc, store, _ := newTestUseCase(t)

	cases := []dto.CreateProductRequest{
		{Name: "", Category: "Quirúrgico"},
		{Name: "   ", Category: "Quirúrgico"},
		{Name: "Gasa", Category: ""},
		{Name: "Gasa", Category: "Quirúrgico", CurrentStock: -1},
		{Name: "Gasa", Category: "Quirúrgico", MinStockLevel: -1},
		{Name: "Gasa", Category: "Quirúrgico", UnitPrice: decimal.NewFromInt(-3)},
	}
	for _, in := range cases {
		_, err := uc.AddProduct(context.Background(), in, "actor-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, store.products, "nada debe persistirse ante entrada inválida")
	assert.Empty(t, store.ledger)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStock — clasificación, auditoría y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStock_Disminucion_RegistraREMOVE(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Guantes nitrilo M", 150, 10)

	out, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{
		NewQuantity: 8,
		Reason:      "Consumo quirófano 3",
	}, "actor-2")
	require.NoError(t, err)
	assert.Equal(t, 8, out.CurrentStock)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	require.Len(t, history.Items, 2)

	// Más reciente primero
	tx := history.Items[0]
	assert.Equal(t, entity.TransactionTypeRemove, tx.Type)
	assert.Equal(t, 142, tx.Quantity, "la cantidad del asiento es el delta absoluto")
	assert.Equal(t, 150, tx.PreviousStock)
	assert.Equal(t, 8, tx.NewStock)
	assert.Equal(t, "Consumo quirófano 3", tx.Reason)
	assert.Equal(t, "actor-2", tx.PerformedBy)

	// 8 <= 10: ahora debe aparecer en bajo mínimo
	low, err := uc.LowStock()
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, id, low.Items[0].ID)
}

func TestUpdateStock_Aumento_RegistraADD(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Suturas 3-0", 8, 10)

	_, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{
		NewQuantity: 20,
		Reason:      "Reposición proveedor",
	}, "actor-1")
	require.NoError(t, err)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	tx := history.Items[0]
	assert.Equal(t, entity.TransactionTypeAdd, tx.Type)
	assert.Equal(t, 12, tx.Quantity)
	assert.Equal(t, 8, tx.PreviousStock)
	assert.Equal(t, 20, tx.NewStock)
}

func TestUpdateStock_DeltaCero_RegistraADJUST(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Mascarillas N95", 30, 5)

	_, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{
		NewQuantity: 30,
		Reason:      "Conteo físico sin diferencias",
	}, "actor-1")
	require.NoError(t, err)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	require.Len(t, history.Items, 2, "el no-op también queda auditado")

	tx := history.Items[0]
	assert.Equal(t, entity.TransactionTypeAdjust, tx.Type)
	assert.Equal(t, 0, tx.Quantity)
	assert.Equal(t, 30, tx.PreviousStock)
	assert.Equal(t, 30, tx.NewStock)
}

func TestUpdateStock_ValidacionAntesDeTocarElStore(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Catéter 18G", 40, 5)
	entriesBefore := len(store.ledger)

	_, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{NewQuantity: 10, Reason: "   "}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "motivo en blanco se rechaza")

	_, err = uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{NewQuantity: -4, Reason: "ajuste"}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa se rechaza")

	assert.Len(t, store.ledger, entriesBefore, "el rechazo ocurre antes de cualquier escritura")

	product, err := uc.GetProduct(id)
	require.NoError(t, err)
	assert.Equal(t, 40, product.CurrentStock, "el stock no debe cambiar")
}

func TestUpdateStock_ProductoInexistente_RetornaNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.UpdateStock(context.Background(), uuid.NewString(), dto.UpdateStockRequest{
		NewQuantity: 5,
		Reason:      "ajuste",
	}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStock_ConflictoDeVersion_ReintentaYGana(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Vendas elásticas", 50, 10)

	// Un escritor concurrente avanza la versión en el primer intento
	store.conflicts = 1

	out, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{
		NewQuantity: 45,
		Reason:      "Entrega planta 2",
	}, "actor-1")
	require.NoError(t, err, "un conflicto aislado debe resolverse con el reintento")
	assert.Equal(t, 45, out.CurrentStock)

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	assert.Len(t, history.Items, 2, "el conflicto no debe dejar asientos duplicados")
}

func TestUpdateStock_ConflictosAgotados_RetornaConflict(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Jeringas 5ml", 50, 10)
	entriesBefore := len(store.ledger)

	// Conflicto en todos los intentos
	store.conflicts = 100

	_, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{
		NewQuantity: 45,
		Reason:      "Entrega planta 2",
	}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "agotados los reintentos se reporta el conflicto")
	assert.Len(t, store.ledger, entriesBefore, "sin escritura exitosa no hay asiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProduct — los campos generales nunca tocan el stock
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProduct_NoAlteraStockNiVersion(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Gasa estéril", 150, 10)

	name := "Gasa estéril 10x10"
	minStock := 20
	out, err := uc.UpdateProduct(context.Background(), id, dto.UpdateProductRequest{
		Name:          &name,
		MinStockLevel: &minStock,
	}, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, "Gasa estéril 10x10", out.Name)
	assert.Equal(t, 20, out.MinStockLevel)
	assert.Equal(t, 150, out.CurrentStock, "la actualización general no toca la cantidad")

	stored := store.products[id]
	assert.Equal(t, int64(1), stored.Version, "sin escritura de stock la versión no avanza")

	history, err := uc.StockHistory(id)
	require.NoError(t, err)
	assert.Len(t, history.Items, 1, "sin asientos nuevos")
}

func TestUpdateProduct_CamposInvalidos(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Gasa estéril", 10, 2)

	blank := "  "
	_, err := uc.UpdateProduct(context.Background(), id, dto.UpdateProductRequest{Name: &blank}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := -5
	_, err = uc.UpdateProduct(context.Background(), id, dto.UpdateProductRequest{MinStockLevel: &negative}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduct_Inexistente(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	name := "x"
	_, err := uc.UpdateProduct(context.Background(), uuid.NewString(), dto.UpdateProductRequest{Name: &name}, "actor-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteProduct — cascada atómica producto + libro
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteProduct_EliminaProductoYLibro(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	id := createProduct(t, uc, "Guantes nitrilo M", 150, 10)
	_, err := uc.UpdateStock(context.Background(), id, dto.UpdateStockRequest{NewQuantity: 100, Reason: "Consumo"}, "actor-1")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(context.Background(), id))

	_, err = uc.GetProduct(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := uc.StockHistory(id)
	require.NoError(t, err, "consultar historial de un producto eliminado no es error")
	assert.Empty(t, history.Items, "el libro del producto eliminado queda vacío")
	assert.Empty(t, store.ledger, "no quedan asientos huérfanos")
}

func TestDeleteProduct_Inexistente(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	err := uc.DeleteProduct(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas derivadas
// ──────────────────────────────────────────────────────────────────────────────

func TestListProducts_OrdenadoPorNombre(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	createProduct(t, uc, "Vendas", 10, 2)
	createProduct(t, uc, "Agujas", 10, 2)
	createProduct(t, uc, "Mascarillas", 10, 2)

	out, err := uc.ListProducts()
	require.NoError(t, err)
	require.Equal(t, 3, out.Total)
	assert.Equal(t, "Agujas", out.Items[0].Name)
	assert.Equal(t, "Mascarillas", out.Items[1].Name)
	assert.Equal(t, "Vendas", out.Items[2].Name)
}

func TestLowStock_FronteraInclusiva(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	atMin := createProduct(t, uc, "En el mínimo", 10, 10)
	createProduct(t, uc, "Sobre el mínimo", 11, 10)

	low, err := uc.LowStock()
	require.NoError(t, err)
	require.Len(t, low.Items, 1, "stock igual al mínimo cuenta como bajo")
	assert.Equal(t, atMin, low.Items[0].ID)
}

func TestLowStockReportPDF_GeneraBytes(t *testing.T) {
	uc, _, gen := newTestUseCase(t)
	createProduct(t, uc, "Gasa estéril", 2, 10)

	pdf, err := uc.LowStockReportPDF(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, gen.calls)
}
