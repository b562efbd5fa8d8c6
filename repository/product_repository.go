package repository

import (
	"database/sql"
	"fmt"
	"time"

	"shelfwatch/database"
	"shelfwatch/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Upsert inserts or fully replaces a product keyed by its identifier. The
// original created_at is preserved when the row already exists; updated_at
// always refreshes to the current time.
func (r *ProductRepository) Upsert(product *models.Product) error {
	now := time.Now().UTC()
	createdAt := now
	if !product.CreatedAt.IsZero() {
		createdAt = product.CreatedAt.UTC()
	}

	var existing string
	err := r.db.QueryRow(`SELECT created_at FROM products WHERE id = ?`, product.ID).Scan(&existing)
	switch {
	case err == nil:
		if t, perr := time.Parse(database.TimeLayout, existing); perr == nil {
			createdAt = t
		}
	case err != sql.ErrNoRows:
		return fmt.Errorf("failed to look up product: %v", err)
	}

	_, err = r.db.Exec(`
		INSERT OR REPLACE INTO products
		(id, name, size, category, brand, upc, target_url, walmart_url, cvs_url,
		 walgreens_url, amazon_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		product.ID, product.Name, product.Size, product.Category,
		product.Brand, product.UPC,
		product.TargetURL, product.WalmartURL, product.CVSURL,
		product.WalgreensURL, product.AmazonURL,
		createdAt.Format(database.TimeLayout),
		now.Format(database.TimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %v", err)
	}

	product.CreatedAt = createdAt
	product.UpdatedAt = now
	return nil
}

// Get returns the product with the given identifier, or nil when it does
// not exist.
func (r *ProductRepository) Get(id string) (*models.Product, error) {
	row := r.db.QueryRow(`
		SELECT id, name, size, category, brand, upc, target_url, walmart_url,
		       cvs_url, walgreens_url, amazon_url, created_at, updated_at
		FROM products
		WHERE id = ?
	`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %v", err)
	}
	return product, nil
}

// List returns all tracked products.
func (r *ProductRepository) List() ([]models.Product, error) {
	rows, err := r.db.Query(`
		SELECT id, name, size, category, brand, upc, target_url, walmart_url,
		       cvs_url, walgreens_url, amazon_url, created_at, updated_at
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %v", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var brand, upc, targetURL, walmartURL, cvsURL, walgreensURL, amazonURL sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.Name, &p.Size, &p.Category, &brand, &upc,
		&targetURL, &walmartURL, &cvsURL, &walgreensURL, &amazonURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Brand = brand.String
	p.UPC = upc.String
	p.TargetURL = targetURL.String
	p.WalmartURL = walmartURL.String
	p.CVSURL = cvsURL.String
	p.WalgreensURL = walgreensURL.String
	p.AmazonURL = amazonURL.String
	p.CreatedAt, _ = time.Parse(database.TimeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(database.TimeLayout, updatedAt)
	return &p, nil
}
