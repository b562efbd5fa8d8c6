package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"shelfwatch/collector"
	"shelfwatch/models"
	"shelfwatch/repository"

	"github.com/gorilla/mux"
)

type Handlers struct {
	productRepo  *repository.ProductRepository
	retailerRepo *repository.RetailerRepository
	priceRepo    *repository.PriceRepository
	collector    *collector.Collector
	lookbackDays int
}

func NewHandlers(
	productRepo *repository.ProductRepository,
	retailerRepo *repository.RetailerRepository,
	priceRepo *repository.PriceRepository,
	c *collector.Collector,
	lookbackDays int,
) *Handlers {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Handlers{
		productRepo:  productRepo,
		retailerRepo: retailerRepo,
		priceRepo:    priceRepo,
		collector:    c,
		lookbackDays: lookbackDays,
	}
}

// AddProduct registers or replaces a tracked product.
func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req models.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required")
		return
	}

	product := &models.Product{
		ID:           req.ID,
		Name:         req.Name,
		Size:         req.Size,
		Category:     req.Category,
		Brand:        req.Brand,
		UPC:          req.UPC,
		TargetURL:    req.TargetURL,
		WalmartURL:   req.WalmartURL,
		CVSURL:       req.CVSURL,
		WalgreensURL: req.WalgreensURL,
		AmazonURL:    req.AmazonURL,
	}

	if err := h.productRepo.Upsert(product); err != nil {
		log.Printf("Failed to upsert product %s: %v", req.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to save product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// ListProducts returns all tracked products.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.List()
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by identifier.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.productRepo.Get(id)
	if err != nil {
		log.Printf("Failed to get product %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListRetailers returns the configured retailers.
func (h *Handlers) ListRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.retailerRepo.List()
	if err != nil {
		log.Printf("Failed to list retailers: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list retailers")
		return
	}
	writeJSON(w, http.StatusOK, retailers)
}

// GetRecentPrices returns the most recent observations for a
// (product, retailer) pair, newest first.
func (h *Handlers) GetRecentPrices(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	points, err := h.priceRepo.Recent(vars["id"], vars["retailerId"], limit)
	if err != nil {
		log.Printf("Failed to get prices for %s/%s: %v", vars["id"], vars["retailerId"], err)
		writeError(w, http.StatusInternalServerError, "failed to get prices")
		return
	}
	if points == nil {
		points = []models.PricePoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// GetPriceStats returns windowed statistics for a (product, retailer) pair.
func (h *Handlers) GetPriceStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = h.lookbackDays
	}

	stats, err := h.priceRepo.Stats(vars["id"], vars["retailerId"], days)
	if err != nil {
		log.Printf("Failed to get stats for %s/%s: %v", vars["id"], vars["retailerId"], err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "no observations in window")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AddManualPrice records a manually entered price observation. This is the
// only path that populates pack size and advertised savings.
func (h *Handlers) AddManualPrice(w http.ResponseWriter, r *http.Request) {
	var req models.ManualPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" || req.RetailerID == "" {
		writeError(w, http.StatusBadRequest, "product_id and retailer_id are required")
		return
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "price must be positive")
		return
	}

	point := &models.PricePoint{
		ProductID:         req.ProductID,
		RetailerID:        req.RetailerID,
		Price:             req.Price,
		Timestamp:         time.Now(),
		URL:               req.URL,
		PackSize:          req.PackSize,
		AdvertisedSavings: req.AdvertisedSavings,
	}

	if err := h.priceRepo.Append(point); err != nil {
		log.Printf("Failed to save manual price for %s/%s: %v", req.ProductID, req.RetailerID, err)
		writeError(w, http.StatusInternalServerError, "failed to save price")
		return
	}

	writeJSON(w, http.StatusOK, point)
}

// Collect runs one collection pass over every tracked product and returns
// the run summary. The pass is sequential and can take minutes.
func (h *Handlers) Collect(w http.ResponseWriter, r *http.Request) {
	summary, err := h.collector.Run()
	if err != nil {
		log.Printf("Collection run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "collection run failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CollectProduct runs one collection pass for a single product.
func (h *Handlers) CollectProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	summary, err := h.collector.RunProduct(id)
	if err != nil {
		log.Printf("Collection failed for %s: %v", id, err)
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
