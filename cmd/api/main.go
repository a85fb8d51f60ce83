package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/sokophones/storefront/internal/config"
	"github.com/sokophones/storefront/internal/database"
	"github.com/sokophones/storefront/internal/models"
	"github.com/sokophones/storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database successfully")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/products", handleListProducts(db))
	r.Get("/products/{id}", handleGetProduct(db))
	r.Post("/orders", handleCreateOrder(db))
	r.Get("/orders/{id}", handleGetOrder(db))

	r.Route("/admin", func(r chi.Router) {
		if cfg.Server.AdminAPIKey != "" {
			r.Use(requireAdminKey(cfg.Server.AdminAPIKey))
		}

		r.Get("/products", handleAdminListProducts(db))
		r.Post("/products", handleAdminCreateProduct(db))
		r.Put("/products/{id}", handleAdminUpdateProduct(db))
		r.Delete("/products/{id}", handleAdminDeleteProduct(db))
		r.Patch("/products/{id}/active", handleAdminSetProductActive(db))
		r.Get("/orders", handleAdminListOrders(db))
		r.Get("/orders/{id}", handleGetOrder(db))
		r.Patch("/orders/{id}/status", handleAdminUpdateOrderStatus(db))
		r.Get("/stats", handleAdminStats(db))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func requireAdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Admin-Key") != key {
				respondError(w, http.StatusUnauthorized, "Invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleListProducts(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			products []models.Product
			err      error
		)

		switch {
		case r.URL.Query().Get("featured") == "1":
			products, err = store.ListFeaturedProducts(ctx, db)
		case r.URL.Query().Get("brand") != "":
			products, err = store.ListProductsByBrand(ctx, db, r.URL.Query().Get("brand"))
		default:
			products, err = store.ListActiveProducts(ctx, db)
		}

		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, products)
	}
}

func handleGetProduct(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		product, err := store.GetActiveProduct(r.Context(), db, id)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, product)
	}
}

func handleCreateOrder(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CustomerName    string `json:"customer_name"`
			CustomerEmail   string `json:"customer_email"`
			CustomerPhone   string `json:"customer_phone"`
			ShippingAddress string `json:"shipping_address"`
			PaymentMethod   string `json:"payment_method"`
			Items           []struct {
				ProductID int64 `json:"product_id"`
				Quantity  int   `json:"quantity"`
			} `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var items []store.OrderItemRequest
		for _, item := range req.Items {
			items = append(items, store.OrderItemRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := store.CreateOrder(r.Context(), db, store.CreateOrderRequest{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Items:           items,
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, order)
	}
}

func handleGetOrder(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		order, err := store.GetOrder(r.Context(), db, id)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, order)
	}
}

func handleAdminListProducts(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := parsePaging(r)

		result, err := store.ListProducts(r.Context(), db, page, pageSize)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

type productRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	ImageURL    string              `json:"image_url"`
	Specs       models.ProductSpecs `json:"specs"`
	Brand       string              `json:"brand"`
	Category    string              `json:"category"`
	Colors      []string            `json:"colors"`
	Stock       int                 `json:"stock"`
	IsNew       bool                `json:"is_new"`
}

func (p productRequest) toCreateRequest() store.CreateProductRequest {
	return store.CreateProductRequest{
		Name:        p.Name,
		Description: p.Description,
		Price:       decimal.NewFromFloat(p.Price),
		ImageURL:    p.ImageURL,
		Specs:       p.Specs,
		Brand:       p.Brand,
		Category:    p.Category,
		Colors:      p.Colors,
		Stock:       p.Stock,
		IsNew:       p.IsNew,
	}
}

func handleAdminCreateProduct(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		product, err := store.CreateProduct(r.Context(), db, req.toCreateRequest())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, product)
	}
}

func handleAdminUpdateProduct(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var req struct {
			productRequest
			Version int `json:"version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		product, err := store.UpdateProduct(r.Context(), db, id, req.toCreateRequest(), req.Version)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, product)
	}
}

func handleAdminDeleteProduct(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		if err := store.DeleteProduct(r.Context(), db, id); err != nil {
			respondStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminSetProductActive(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := store.SetProductActive(r.Context(), db, id, req.Active); err != nil {
			respondStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminListOrders(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cursor := r.URL.Query().Get("cursor"); cursor != "" || r.URL.Query().Get("paging") == "cursor" {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			if limit < 1 || limit > 100 {
				limit = 20
			}

			result, err := store.ListOrdersCursor(r.Context(), db, cursor, limit)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, result)
			return
		}

		page, pageSize := parsePaging(r)
		result, err := store.ListOrders(r.Context(), db, page, pageSize)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

func handleAdminUpdateOrderStatus(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		prevStatus, err := store.UpdateOrderStatus(r.Context(), db, id, req.Status)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"status":          req.Status,
			"previous_status": prevStatus,
		})
	}
}

func handleAdminStats(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GetStoreStats(r.Context(), db)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, stats)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

func parsePaging(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrEmptyOrder),
		errors.Is(err, database.ErrInvalidOrderStatus):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, database.ErrOptimisticLockFailed):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
