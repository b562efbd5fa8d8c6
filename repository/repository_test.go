package repository

import (
	"database/sql"
	"testing"
	"time"

	"shelfwatch/database"
	"shelfwatch/models"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.CreateTables(db))
	return db
}

func TestProductUpsertPreservesCreatedAt(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))

	product := &models.Product{
		ID:         "eucerin-eczema-5oz",
		Name:       "Eucerin Eczema Relief Cream",
		Size:       "5 oz",
		Category:   "skincare",
		WalmartURL: "https://www.walmart.com/ip/12345",
	}
	require.NoError(t, repo.Upsert(product))

	firstCreated := product.CreatedAt
	firstUpdated := product.UpdatedAt
	require.False(t, firstCreated.IsZero())

	time.Sleep(5 * time.Millisecond)

	product.Name = "Eucerin Eczema Relief Body Cream"
	product.CreatedAt = time.Time{}
	require.NoError(t, repo.Upsert(product))

	require.Equal(t, firstCreated, product.CreatedAt)
	require.True(t, product.UpdatedAt.After(firstUpdated))

	stored, err := repo.Get("eucerin-eczema-5oz")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "Eucerin Eczema Relief Body Cream", stored.Name)
	require.Equal(t, firstCreated, stored.CreatedAt)
}

func TestProductGetAbsent(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))

	product, err := repo.Get("missing")
	require.NoError(t, err)
	require.Nil(t, product)
}

func TestProductList(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))

	require.NoError(t, repo.Upsert(&models.Product{ID: "b", Name: "B", Size: "1 oz", Category: "c"}))
	require.NoError(t, repo.Upsert(&models.Product{ID: "a", Name: "A", Size: "1 oz", Category: "c"}))

	products, err := repo.List()
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "a", products[0].ID)
	require.Equal(t, "b", products[1].ID)
}

func TestRetailerSeedDefaults(t *testing.T) {
	repo := NewRetailerRepository(openTestDB(t))

	require.NoError(t, repo.SeedDefaults())
	// idempotent
	require.NoError(t, repo.SeedDefaults())

	retailers, err := repo.List()
	require.NoError(t, err)
	require.Len(t, retailers, len(models.RetailerIDs))
}

func TestPriceAppendOnlyAndRecentOrdering(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))

	base := time.Now().UTC().Add(-time.Hour)
	want := []float64{10.00, 12.00, 11.00}
	for i, price := range want {
		require.NoError(t, repo.Append(&models.PricePoint{
			ProductID:  "p1",
			RetailerID: "walmart",
			Price:      price,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			URL:        "https://www.walmart.com/ip/12345",
		}))
	}

	points, err := repo.Recent("p1", "walmart", 10)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// newest first, no omissions or mutations
	require.Equal(t, 11.00, points[0].Price)
	require.Equal(t, 12.00, points[1].Price)
	require.Equal(t, 10.00, points[2].Price)
	for _, p := range points {
		require.Equal(t, "p1", p.ProductID)
		require.Equal(t, "walmart", p.RetailerID)
		require.Equal(t, 1, p.PackSize)
		require.Nil(t, p.AdvertisedSavings)
	}
	require.True(t, points[0].Timestamp.After(points[1].Timestamp))
	require.True(t, points[1].Timestamp.After(points[2].Timestamp))
}

func TestPriceAppendRejectsNonPositive(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))

	err := repo.Append(&models.PricePoint{ProductID: "p1", RetailerID: "target", Price: 0})
	require.Error(t, err)

	err = repo.Append(&models.PricePoint{ProductID: "p1", RetailerID: "target", Price: -3.99})
	require.Error(t, err)

	points, err := repo.Recent("p1", "target", 10)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestPriceStatsWindow(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))

	// observation well outside the 30-day window
	require.NoError(t, repo.Append(&models.PricePoint{
		ProductID:  "p1",
		RetailerID: "target",
		Price:      20.00,
		Timestamp:  time.Now().UTC().AddDate(0, 0, -40),
		URL:        "https://www.target.com/p/old",
	}))

	base := time.Now().UTC().Add(-2 * time.Hour)
	for i, price := range []float64{10.00, 12.00, 11.00} {
		require.NoError(t, repo.Append(&models.PricePoint{
			ProductID:  "p1",
			RetailerID: "target",
			Price:      price,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			URL:        "https://www.target.com/p/new",
		}))
	}

	stats, err := repo.Stats("p1", "target", 30)
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Equal(t, 3, stats.ObservationCount)
	require.Equal(t, 10.00, stats.MinPrice)
	require.Equal(t, 12.00, stats.MaxPrice)
	require.Equal(t, 11.00, stats.AvgPrice)
	// current price is the most recent observation ever
	require.Equal(t, 11.00, stats.CurrentPrice)
	require.True(t, stats.LastUpdated.After(stats.FirstSeen))
}

func TestPriceStatsEmptyWindow(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))

	stats, err := repo.Stats("p1", "cvs", 30)
	require.NoError(t, err)
	require.Nil(t, stats)

	// history exists but none of it falls inside the window
	require.NoError(t, repo.Append(&models.PricePoint{
		ProductID:  "p1",
		RetailerID: "cvs",
		Price:      8.99,
		Timestamp:  time.Now().UTC().AddDate(0, 0, -60),
		URL:        "https://www.cvs.com/shop/old",
	}))

	stats, err = repo.Stats("p1", "cvs", 30)
	require.NoError(t, err)
	require.Nil(t, stats)
}

func TestPriceAppendManualFields(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))

	savings := 2.50
	require.NoError(t, repo.Append(&models.PricePoint{
		ProductID:         "p1",
		RetailerID:        "walgreens",
		Price:             15.49,
		Timestamp:         time.Now().UTC(),
		URL:               "https://www.walgreens.com/store/123",
		PackSize:          3,
		AdvertisedSavings: &savings,
	}))

	points, err := repo.Recent("p1", "walgreens", 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, 3, points[0].PackSize)
	require.NotNil(t, points[0].AdvertisedSavings)
	require.Equal(t, 2.50, *points[0].AdvertisedSavings)
}
