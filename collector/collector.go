package collector

import (
	"fmt"
	"log"
	"time"

	"shelfwatch/models"
	"shelfwatch/repository"
)

// PriceFetcher is the scraper boundary the collector depends on: one
// retailer, one fetch contract.
type PriceFetcher interface {
	RetailerID() string
	FetchPrice(productID, url string) (*models.PricePoint, error)
}

// ProductSummary tallies one product's collection outcomes.
type ProductSummary struct {
	ProductID string `json:"product_id"`
	Attempts  int    `json:"attempts"`
	Successes int    `json:"successes"`
	Failures  int    `json:"failures"`
	Skipped   int    `json:"skipped"`
}

// Summary tallies a whole collection run.
type Summary struct {
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Attempts    int              `json:"attempts"`
	Successes   int              `json:"successes"`
	Failures    int              `json:"failures"`
	Skipped     int              `json:"skipped"`
	SuccessRate float64          `json:"success_rate"`
	Products    []ProductSummary `json:"products"`
}

// Collector walks every tracked product across every retailer with a
// configured URL, strictly sequentially: one browser session at a time,
// no retries within a run.
type Collector struct {
	products *repository.ProductRepository
	prices   *repository.PriceRepository
	fetchers []PriceFetcher
}

func New(products *repository.ProductRepository, prices *repository.PriceRepository, fetchers []PriceFetcher) *Collector {
	return &Collector{
		products: products,
		prices:   prices,
		fetchers: fetchers,
	}
}

// Run collects prices for all tracked products. Store read failures
// terminate the run; scrape failures only increment the failure tally.
func (c *Collector) Run() (*Summary, error) {
	summary := &Summary{StartedAt: time.Now()}

	products, err := c.products.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %v", err)
	}
	if len(products) == 0 {
		log.Println("No products to collect")
		summary.FinishedAt = time.Now()
		return summary, nil
	}

	log.Printf("Collecting prices for %d product(s)", len(products))

	for i := range products {
		ps := c.collectProduct(&products[i])
		summary.Products = append(summary.Products, ps)
		summary.Attempts += ps.Attempts
		summary.Successes += ps.Successes
		summary.Failures += ps.Failures
		summary.Skipped += ps.Skipped
	}

	summary.FinishedAt = time.Now()
	if summary.Attempts > 0 {
		summary.SuccessRate = float64(summary.Successes) / float64(summary.Attempts) * 100
	}

	log.Printf("Collection complete: %d attempts, %d successful (%.1f%%), %d failed, %d skipped",
		summary.Attempts, summary.Successes, summary.SuccessRate, summary.Failures, summary.Skipped)
	return summary, nil
}

// RunProduct collects prices for a single product.
func (c *Collector) RunProduct(productID string) (*ProductSummary, error) {
	product, err := c.products.Get(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %v", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product not found: %s", productID)
	}

	ps := c.collectProduct(product)
	return &ps, nil
}

func (c *Collector) collectProduct(product *models.Product) ProductSummary {
	ps := ProductSummary{ProductID: product.ID}

	log.Printf("Product: %s (%s)", product.Name, product.Size)

	for _, fetcher := range c.fetchers {
		retailerID := fetcher.RetailerID()
		url := product.RetailerURL(retailerID)

		if url == "" {
			log.Printf("  %-12s no URL configured (skipping)", retailerID)
			ps.Skipped++
			continue
		}

		ps.Attempts++
		point, err := fetcher.FetchPrice(product.ID, url)
		if err != nil {
			log.Printf("  %-12s FAILED: %v", retailerID, err)
			ps.Failures++
			continue
		}
		if point == nil {
			log.Printf("  %-12s FAILED: no price returned", retailerID)
			ps.Failures++
			continue
		}

		if err := c.prices.Append(point); err != nil {
			log.Printf("  %-12s FAILED to save price: %v", retailerID, err)
			ps.Failures++
			continue
		}

		log.Printf("  %-12s SUCCESS: $%.2f", retailerID, point.Price)
		ps.Successes++
	}

	log.Printf("Product summary for %s: %d successful, %d failed, %d skipped",
		product.ID, ps.Successes, ps.Failures, ps.Skipped)
	return ps
}
