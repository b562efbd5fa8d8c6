package repository

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"shelfwatch/database"
	"shelfwatch/models"
)

type PriceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Append records a new price observation. Price history is append-only:
// there is no update or delete path.
func (r *PriceRepository) Append(point *models.PricePoint) error {
	if point.Price <= 0 {
		return fmt.Errorf("price must be positive, got %.2f", point.Price)
	}

	packSize := point.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	var savings any
	if point.AdvertisedSavings != nil {
		savings = *point.AdvertisedSavings
	}

	timestamp := point.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO price_history
		(product_id, retailer_id, price, timestamp, url, pack_size, advertised_savings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		point.ProductID, point.RetailerID, point.Price,
		timestamp.UTC().Format(database.TimeLayout),
		point.URL, packSize, savings,
	)
	if err != nil {
		return fmt.Errorf("failed to add price point: %v", err)
	}
	return nil
}

// Recent returns the most recent observations for a (product, retailer)
// pair, newest first.
func (r *PriceRepository) Recent(productID, retailerID string, limit int) ([]models.PricePoint, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.Query(`
		SELECT product_id, retailer_id, price, timestamp, url, pack_size, advertised_savings
		FROM price_history
		WHERE product_id = ? AND retailer_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, productID, retailerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent prices: %v", err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		var timestamp string
		var savings sql.NullFloat64
		err := rows.Scan(
			&point.ProductID, &point.RetailerID, &point.Price,
			&timestamp, &point.URL, &point.PackSize, &savings,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %v", err)
		}
		point.Timestamp, _ = time.Parse(database.TimeLayout, timestamp)
		if savings.Valid {
			value := savings.Float64
			point.AdvertisedSavings = &value
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

// Stats computes min/max/avg/count over the observations within the
// trailing window of windowDays days. The current price is the most recent
// observation ever recorded for the pair, which may fall outside the window.
// Returns nil when the window holds no observations.
func (r *PriceRepository) Stats(productID, retailerID string, windowDays int) (*models.PriceStats, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays).Format(database.TimeLayout)

	var count int
	var minPrice, maxPrice, avgPrice sql.NullFloat64
	var firstSeen, lastUpdated sql.NullString
	err := r.db.QueryRow(`
		SELECT COUNT(*), MIN(price), MAX(price), AVG(price), MIN(timestamp), MAX(timestamp)
		FROM price_history
		WHERE product_id = ? AND retailer_id = ? AND timestamp >= ?
	`, productID, retailerID, cutoff).Scan(&count, &minPrice, &maxPrice, &avgPrice, &firstSeen, &lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to compute price stats: %v", err)
	}
	if count == 0 {
		return nil, nil
	}

	currentPrice := avgPrice.Float64
	err = r.db.QueryRow(`
		SELECT price
		FROM price_history
		WHERE product_id = ? AND retailer_id = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`, productID, retailerID).Scan(&currentPrice)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get current price: %v", err)
	}

	stats := &models.PriceStats{
		ProductID:        productID,
		RetailerID:       retailerID,
		CurrentPrice:     currentPrice,
		MinPrice:         minPrice.Float64,
		MaxPrice:         maxPrice.Float64,
		AvgPrice:         math.Round(avgPrice.Float64*100) / 100,
		ObservationCount: count,
	}
	stats.FirstSeen, _ = time.Parse(database.TimeLayout, firstSeen.String)
	stats.LastUpdated, _ = time.Parse(database.TimeLayout, lastUpdated.String)
	return stats, nil
}
