package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gp-0001/n-surgicals/internal/domain"
	"github.com/gp-0001/n-surgicals/internal/domain/entity"
	"github.com/gp-0001/n-surgicals/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, description, category, COALESCE(image_url, ''), current_stock, min_stock_level, unit_price, version, created_at, updated_at, COALESCE(created_by, '')`

// Create persiste un producto nuevo. El store asigna id, version 1 y los
// timestamps (now() del servidor, no el reloj del caller).
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, name, description, category, image_url, current_stock, min_stock_level, unit_price, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, now(), now())
		RETURNING version, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, nullable(product.ImageURL),
		product.CurrentStock, product.MinStockLevel, product.UnitPrice, nullable(product.CreatedBy),
	).Scan(&product.Version, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve todos los productos ordenados por nombre ascendente.
// Snapshot fresco en cada llamada; no se retiene cursor en el servidor.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update escribe los campos generales y refresca updated_at con el reloj del
// store. Nunca toca current_stock ni version: esa ruta es exclusiva del
// coordinador vía UpdateStockVersioned.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, image_url = $5, min_stock_level = $6, unit_price = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, nullable(product.ImageURL),
		product.MinStockLevel, product.UnitPrice,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStockVersioned escribe current_stock condicionado a la versión leída
// por el caller. Devuelve las filas afectadas: 0 significa que otra escritura
// ganó la carrera y el caller debe releer y reintentar.
func (r *ProductRepo) UpdateStockVersioned(id string, newStock int, expectedVersion int64) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE products
		SET current_stock = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, newStock, expectedVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("update stock: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete elimina solo la fila del producto y devuelve las filas afectadas.
func (r *ProductRepo) Delete(id string) (int64, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.ImageURL,
		&p.CurrentStock, &p.MinStockLevel, &p.UnitPrice, &p.Version,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
