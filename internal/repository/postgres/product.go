package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/camvault/dealer-ledger/internal/domain"
)

const productColumns = `id, company, segment, model_number, product_type, description, specifications,
		base_price, purchase_percentage, sale_percentage, purchase_price, sale_price,
		stock_quantity, in_stock, is_active, created_at, updated_at`

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	q Querier
}

// NewProductRepository creates a new PostgreSQL product repository. Pass a pool or a tx.
func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

// Create inserts a new product. Derived prices are recomputed here, whatever the caller set.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	product.Reprice()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.q.ExecContext(
		ctx,
		query,
		product.ID,
		product.Company,
		product.Segment,
		product.ModelNumber,
		product.ProductType,
		product.Description,
		product.Specifications,
		product.BasePrice,
		product.PurchasePercentage,
		product.SalePercentage,
		product.PurchasePrice,
		product.SalePrice,
		product.StockQuantity,
		product.InStock,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return mapError("insert product", err)
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product domain.Product
	if err := r.q.GetContext(ctx, &product, query, id); err != nil {
		return nil, mapError("get product", err)
	}

	return &product, nil
}

// GetByIDForUpdate retrieves a product and locks its row (SELECT FOR UPDATE)
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	var product domain.Product
	if err := r.q.GetContext(ctx, &product, query, id); err != nil {
		return nil, mapError("get product for update", err)
	}

	return &product, nil
}

// GetByModelNumberForUpdate retrieves a product by model number and locks its row
func (r *ProductRepository) GetByModelNumberForUpdate(ctx context.Context, modelNumber string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE model_number = $1 FOR UPDATE`

	var product domain.Product
	if err := r.q.GetContext(ctx, &product, query, modelNumber); err != nil {
		return nil, mapError("get product by model number", err)
	}

	return &product, nil
}

// GetByIDs retrieves the products with the given IDs; missing IDs are simply absent from the result
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

	var products []*domain.Product
	if err := r.q.SelectContext(ctx, &products, query, pq.Array(raw)); err != nil {
		return nil, mapError("get products by ids", err)
	}

	return products, nil
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = FALSE OR is_active)
		ORDER BY company, model_number
		LIMIT $2 OFFSET $3
	`

	var products []*domain.Product
	if err := r.q.SelectContext(ctx, &products, query, activeOnly, limit, offset); err != nil {
		return nil, mapError("list products", err)
	}

	return products, nil
}

// Count returns the number of products
func (r *ProductRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE ($1 = FALSE OR is_active)`

	var count int
	if err := r.q.GetContext(ctx, &count, query, activeOnly); err != nil {
		return 0, mapError("count products", err)
	}

	return count, nil
}

// Update overwrites a product. Derived prices are recomputed here, whatever the caller set.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET company = $1, segment = $2, model_number = $3, product_type = $4, description = $5,
			specifications = $6, base_price = $7, purchase_percentage = $8, sale_percentage = $9,
			purchase_price = $10, sale_price = $11, stock_quantity = $12, in_stock = $13,
			is_active = $14, updated_at = $15
		WHERE id = $16
		RETURNING updated_at
	`

	product.Reprice()
	product.UpdatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(
		ctx,
		query,
		product.Company,
		product.Segment,
		product.ModelNumber,
		product.ProductType,
		product.Description,
		product.Specifications,
		product.BasePrice,
		product.PurchasePercentage,
		product.SalePercentage,
		product.PurchasePrice,
		product.SalePrice,
		product.StockQuantity,
		product.InStock,
		product.IsActive,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.UpdatedAt)

	return mapError("update product", err)
}

// Deactivate soft-deletes a product
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.q.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return mapError("deactivate product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapError("deactivate product", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
