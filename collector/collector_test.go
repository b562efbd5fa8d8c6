package collector

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"shelfwatch/database"
	"shelfwatch/models"
	"shelfwatch/repository"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeFetcher struct {
	retailerID string
	price      float64
	err        error
	calls      []string
}

func (f *fakeFetcher) RetailerID() string { return f.retailerID }

func (f *fakeFetcher) FetchPrice(productID, url string) (*models.PricePoint, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	return &models.PricePoint{
		ProductID:  productID,
		RetailerID: f.retailerID,
		Price:      f.price,
		Timestamp:  time.Now(),
		URL:        url,
		PackSize:   1,
	}, nil
}

func setupRepos(t *testing.T) (*repository.ProductRepository, *repository.PriceRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.CreateTables(db))

	return repository.NewProductRepository(db), repository.NewPriceRepository(db)
}

func TestRunSkipsRetailersWithoutURL(t *testing.T) {
	products, prices := setupRepos(t)

	require.NoError(t, products.Upsert(&models.Product{
		ID:         "eucerin-eczema-5oz",
		Name:       "Eucerin Eczema Relief Cream",
		Size:       "5 oz",
		Category:   "skincare",
		WalmartURL: "https://www.walmart.com/ip/12345",
		// no Target URL configured
	}))

	walmart := &fakeFetcher{retailerID: "walmart", price: 12.99}
	target := &fakeFetcher{retailerID: "target", price: 13.99}

	c := New(products, prices, []PriceFetcher{walmart, target})
	summary, err := c.Run()
	require.NoError(t, err)

	require.Equal(t, 1, summary.Attempts)
	require.Equal(t, 1, summary.Successes)
	require.Equal(t, 0, summary.Failures)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 100.0, summary.SuccessRate)
	require.Len(t, walmart.calls, 1)
	require.Empty(t, target.calls)

	points, err := prices.Recent("eucerin-eczema-5oz", "walmart", 10)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, 12.99, points[0].Price)

	points, err = prices.Recent("eucerin-eczema-5oz", "target", 10)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestRunCountsFailures(t *testing.T) {
	products, prices := setupRepos(t)

	require.NoError(t, products.Upsert(&models.Product{
		ID:       "cerave-lotion-12oz",
		Name:     "CeraVe Moisturizing Lotion",
		Size:     "12 oz",
		Category: "skincare",
		CVSURL:   "https://www.cvs.com/shop/98765",
	}))

	blocked := &fakeFetcher{retailerID: "cvs", err: errors.New("blocked by anti-automation protection")}

	c := New(products, prices, []PriceFetcher{blocked})
	summary, err := c.Run()
	require.NoError(t, err)

	require.Equal(t, 1, summary.Attempts)
	require.Equal(t, 0, summary.Successes)
	require.Equal(t, 1, summary.Failures)

	// no row persisted for a failed attempt
	points, err := prices.Recent("cerave-lotion-12oz", "cvs", 10)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestRunProduct(t *testing.T) {
	products, prices := setupRepos(t)

	require.NoError(t, products.Upsert(&models.Product{
		ID:         "aquaphor-14oz",
		Name:       "Aquaphor Healing Ointment",
		Size:       "14 oz",
		Category:   "skincare",
		WalmartURL: "https://www.walmart.com/ip/777",
		AmazonURL:  "https://www.amazon.com/dp/B0ABCDEF",
	}))

	walmart := &fakeFetcher{retailerID: "walmart", price: 13.97}
	amazon := &fakeFetcher{retailerID: "amazon", err: errors.New("no price element found")}

	c := New(products, prices, []PriceFetcher{walmart, amazon})
	ps, err := c.RunProduct("aquaphor-14oz")
	require.NoError(t, err)
	require.Equal(t, 2, ps.Attempts)
	require.Equal(t, 1, ps.Successes)
	require.Equal(t, 1, ps.Failures)

	_, err = c.RunProduct("unknown")
	require.Error(t, err)
}

func TestRunEmptyDatabase(t *testing.T) {
	products, prices := setupRepos(t)

	c := New(products, prices, []PriceFetcher{&fakeFetcher{retailerID: "walmart", price: 1.99}})
	summary, err := c.Run()
	require.NoError(t, err)
	require.Equal(t, 0, summary.Attempts)
	require.Empty(t, summary.Products)
}
