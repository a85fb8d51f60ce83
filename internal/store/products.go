package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sokophones/storefront/internal/database"
	"github.com/sokophones/storefront/internal/models"
)

const productColumns = `id, name, description, price, image_url, specs, brand, category, colors,
	stock_quantity, is_new, is_active, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	var specs []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&specs,
		&product.Brand,
		&product.Category,
		pq.Array(&product.Colors),
		&product.StockQuantity,
		&product.IsNew,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return nil, err
	}

	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &product.Specs); err != nil {
			return nil, fmt.Errorf("decode product specs: %w", err)
		}
	}

	return product, nil
}

type CreateProductRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Specs       models.ProductSpecs
	Brand       string
	Category    string
	Colors      []string
	Stock       int
	IsNew       bool
}

func CreateProduct(ctx context.Context, db *sql.DB, req CreateProductRequest) (*models.Product, error) {
	specs, err := json.Marshal(req.Specs)
	if err != nil {
		return nil, fmt.Errorf("encode product specs: %w", err)
	}

	if req.Colors == nil {
		req.Colors = []string{}
	}

	query := `
		INSERT INTO products (name, description, price, image_url, specs, brand, category, colors,
		                      stock_quantity, is_new, is_active, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Price, req.ImageURL, specs,
		req.Brand, req.Category, pq.Array(req.Colors), req.Stock, req.IsNew))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

// GetProduct returns a product regardless of its active flag. Admin surfaces
// use this; the storefront goes through GetActiveProduct.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

func GetActiveProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get active product: %w", err)
	}

	return product, nil
}

func queryProducts(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// ListActiveProducts is the storefront catalog: active products, newest first.
func ListActiveProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY created_at DESC`
	return queryProducts(ctx, db, query)
}

func ListProductsByBrand(ctx context.Context, db *sql.DB, brand string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE brand = $1 AND is_active
		ORDER BY price ASC`
	return queryProducts(ctx, db, query, brand)
}

func ListFeaturedProducts(ctx context.Context, db *sql.DB) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_new AND is_active
		ORDER BY created_at DESC
		LIMIT 6`
	return queryProducts(ctx, db, query)
}

// ListProducts is the admin view: every product, active or not.
func ListProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	products, err := queryProducts(ctx, db, query, pageSize, offset)
	if err != nil {
		return nil, err
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// UpdateProduct rewrites every editable field, guarded by the version column.
// A stale version returns ErrOptimisticLockFailed rather than clobbering a
// concurrent admin edit.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, req CreateProductRequest, version int) (*models.Product, error) {
	specs, err := json.Marshal(req.Specs)
	if err != nil {
		return nil, fmt.Errorf("encode product specs: %w", err)
	}

	if req.Colors == nil {
		req.Colors = []string{}
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, image_url = $4, specs = $5,
		    brand = $6, category = $7, colors = $8, stock_quantity = $9, is_new = $10,
		    updated_at = NOW(), version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Price, req.ImageURL, specs,
		req.Brand, req.Category, pq.Array(req.Colors), req.Stock, req.IsNew,
		id, version))
	if err != nil {
		if err == sql.ErrNoRows {
			if _, getErr := GetProduct(ctx, db, id); getErr != nil {
				return nil, getErr
			}
			return nil, database.ErrOptimisticLockFailed
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// SetProductActive hides or restores a product on the storefront without
// touching order history.
func SetProductActive(ctx context.Context, db *sql.DB, id int64, active bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET is_active = $1, updated_at = NOW(), version = version + 1
		 WHERE id = $2`,
		active, id)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// DecrementStockFloored subtracts quantity from a product's stock, never
// going below zero. Used by the fulfillment transition.
func DecrementStockFloored(ctx context.Context, db *sql.DB, productID int64, quantity int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = GREATEST(stock_quantity - $1, 0),
		     updated_at = NOW()
		 WHERE id = $2`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}
