package repository

import (
	"database/sql"
	"fmt"

	"shelfwatch/models"
)

type RetailerRepository struct {
	db *sql.DB
}

func NewRetailerRepository(db *sql.DB) *RetailerRepository {
	return &RetailerRepository{db: db}
}

// Upsert inserts or replaces a retailer keyed by its identifier.
func (r *RetailerRepository) Upsert(retailer *models.Retailer) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO retailers (id, name, base_url)
		VALUES (?, ?, ?)
	`, retailer.ID, retailer.Name, retailer.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to upsert retailer: %v", err)
	}
	return nil
}

// List returns all configured retailers.
func (r *RetailerRepository) List() ([]models.Retailer, error) {
	rows, err := r.db.Query(`SELECT id, name, base_url FROM retailers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list retailers: %v", err)
	}
	defer rows.Close()

	var retailers []models.Retailer
	for rows.Next() {
		var retailer models.Retailer
		if err := rows.Scan(&retailer.ID, &retailer.Name, &retailer.BaseURL); err != nil {
			return nil, fmt.Errorf("failed to scan retailer: %v", err)
		}
		retailers = append(retailers, retailer)
	}
	return retailers, rows.Err()
}

// SeedDefaults upserts the five supported retailers as static reference data.
func (r *RetailerRepository) SeedDefaults() error {
	defaults := []models.Retailer{
		{ID: "walmart", Name: "Walmart", BaseURL: "https://www.walmart.com"},
		{ID: "target", Name: "Target", BaseURL: "https://www.target.com"},
		{ID: "cvs", Name: "CVS", BaseURL: "https://www.cvs.com"},
		{ID: "walgreens", Name: "Walgreens", BaseURL: "https://www.walgreens.com"},
		{ID: "amazon", Name: "Amazon", BaseURL: "https://www.amazon.com"},
	}

	for i := range defaults {
		if err := r.Upsert(&defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
