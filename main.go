package main

import (
	"log"
	"net/http"
	"time"

	"shelfwatch/collector"
	"shelfwatch/config"
	"shelfwatch/database"
	"shelfwatch/handlers"
	"shelfwatch/middleware"
	"shelfwatch/repository"
	"shelfwatch/scheduler"
	"shelfwatch/scraper"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.CreateTables(db); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	retailerRepo := repository.NewRetailerRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	if err := retailerRepo.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed retailers: %v", err)
	}

	scrapers := scraper.NewAll(cfg.Browser())
	fetchers := make([]collector.PriceFetcher, len(scrapers))
	for i, s := range scrapers {
		fetchers[i] = s
	}
	priceCollector := collector.New(productRepo, priceRepo, fetchers)

	collectionScheduler := scheduler.NewCollectionScheduler(priceCollector, cfg.CollectSchedule)
	collectionScheduler.Start()
	defer collectionScheduler.Stop()

	if cfg.CollectOnStartup {
		go func() {
			if _, err := priceCollector.Run(); err != nil {
				log.Printf("Startup collection failed: %v", err)
			}
		}()
	}

	h := handlers.NewHandlers(productRepo, retailerRepo, priceRepo, priceCollector, cfg.LookbackDays)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RequestsPerSecond))

	r.HandleFunc("/health", healthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/products", h.AddProduct).Methods("POST")
	apiV1.HandleFunc("/products", h.ListProducts).Methods("GET")
	apiV1.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	apiV1.HandleFunc("/products/{id}/prices/{retailerId}", h.GetRecentPrices).Methods("GET")
	apiV1.HandleFunc("/products/{id}/stats/{retailerId}", h.GetPriceStats).Methods("GET")
	apiV1.HandleFunc("/products/{id}/collect", h.CollectProduct).Methods("POST")
	apiV1.HandleFunc("/retailers", h.ListRetailers).Methods("GET")
	apiV1.HandleFunc("/prices", h.AddManualPrice).Methods("POST")
	apiV1.HandleFunc("/collect", h.Collect).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("Server starting on %s:%s", cfg.Host, cfg.Port)
	log.Printf("   GET  /health - Health check")
	log.Printf("   POST /api/v1/products - Add or replace a product")
	log.Printf("   GET  /api/v1/products - List tracked products")
	log.Printf("   GET  /api/v1/products/{id}/prices/{retailerId} - Recent prices")
	log.Printf("   GET  /api/v1/products/{id}/stats/{retailerId} - Windowed stats")
	log.Printf("   POST /api/v1/prices - Manual price entry")
	log.Printf("   POST /api/v1/collect - Run a collection pass now")

	log.Fatal(http.ListenAndServe(cfg.Host+":"+cfg.Port, c.Handler(r)))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"service":"shelfwatch","status":"healthy","timestamp":"` +
		time.Now().Format(time.RFC3339) + `"}`))
}
