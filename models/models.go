package models

import (
	"time"
)

// RetailerIDs lists the supported retailers in the order the collector
// visits them.
var RetailerIDs = []string{"walmart", "target", "cvs", "walgreens", "amazon"}

// Product represents a tracked physical product and its per-retailer page URLs.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         string    `json:"size"`
	Category     string    `json:"category"`
	Brand        string    `json:"brand,omitempty"`
	UPC          string    `json:"upc,omitempty"`
	TargetURL    string    `json:"target_url,omitempty"`
	WalmartURL   string    `json:"walmart_url,omitempty"`
	CVSURL       string    `json:"cvs_url,omitempty"`
	WalgreensURL string    `json:"walgreens_url,omitempty"`
	AmazonURL    string    `json:"amazon_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RetailerURL returns the configured product-page URL for a retailer,
// or "" when none is configured.
func (p *Product) RetailerURL(retailerID string) string {
	switch retailerID {
	case "walmart":
		return p.WalmartURL
	case "target":
		return p.TargetURL
	case "cvs":
		return p.CVSURL
	case "walgreens":
		return p.WalgreensURL
	case "amazon":
		return p.AmazonURL
	}
	return ""
}

// Retailer is static reference data for a supported retailer.
type Retailer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
}

// PricePoint is one immutable price observation for a product at a retailer.
type PricePoint struct {
	ProductID         string    `json:"product_id"`
	RetailerID        string    `json:"retailer_id"`
	Price             float64   `json:"price"`
	Timestamp         time.Time `json:"timestamp"`
	URL               string    `json:"url"`
	PackSize          int       `json:"pack_size"`
	AdvertisedSavings *float64  `json:"advertised_savings,omitempty"`
}

// PriceStats summarizes price history for a (product, retailer) pair over a
// trailing lookback window. Derived on demand, never stored.
type PriceStats struct {
	ProductID        string    `json:"product_id"`
	RetailerID       string    `json:"retailer_id"`
	CurrentPrice     float64   `json:"current_price"`
	MinPrice         float64   `json:"min_price"`
	MaxPrice         float64   `json:"max_price"`
	AvgPrice         float64   `json:"avg_price"`
	ObservationCount int       `json:"observation_count"`
	FirstSeen        time.Time `json:"first_seen"`
	LastUpdated      time.Time `json:"last_updated"`
}

// AddProductRequest is the payload for registering or replacing a product.
type AddProductRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	Category     string `json:"category"`
	Brand        string `json:"brand"`
	UPC          string `json:"upc"`
	TargetURL    string `json:"target_url"`
	WalmartURL   string `json:"walmart_url"`
	CVSURL       string `json:"cvs_url"`
	WalgreensURL string `json:"walgreens_url"`
	AmazonURL    string `json:"amazon_url"`
}

// ManualPriceRequest is the payload for recording a price observation by
// hand. Manual entry is the only path that sets pack size or advertised
// savings; automated scraping always records pack size 1 and no savings.
type ManualPriceRequest struct {
	ProductID         string   `json:"product_id"`
	RetailerID        string   `json:"retailer_id"`
	Price             float64  `json:"price"`
	URL               string   `json:"url"`
	PackSize          int      `json:"pack_size"`
	AdvertisedSavings *float64 `json:"advertised_savings"`
}
