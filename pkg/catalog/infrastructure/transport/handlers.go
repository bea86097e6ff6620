package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"marketplace/pkg/catalog/domain/model"
	"marketplace/pkg/catalog/domain/service"
)

type Handler struct {
	service  service.CatalogService
	products model.ProductRepository
}

func Router(catalogService service.CatalogService, products model.ProductRepository) http.Handler {
	handler := &Handler{service: catalogService, products: products}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/products", handler.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products", handler.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{ID}", handler.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{ID}", handler.updateProduct).Methods(http.MethodPut)
	s.HandleFunc("/products/{ID}", handler.deleteProduct).Methods(http.MethodDelete)
	return logMiddleware(r)
}

type productResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type createProductRequest struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type updateProductRequest struct {
	Name       *string `json:"name"`
	Quantity   *int    `json:"quantity"`
	PriceCents *int64  `json:"price_cents"`
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := h.products.FindAll()
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]productResponse, 0, len(products))
	for _, product := range products {
		response = append(response, toProductResponse(&product))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.products.Find(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var request createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.CreateProduct(request.Name, request.Quantity, request.PriceCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.UpdateProduct(id, service.ProductPatch{
		Name:       request.Name,
		Quantity:   request.Quantity,
		PriceCents: request.PriceCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// deleting an unknown product is still 204
	if err := h.service.DeleteProduct(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProductResponse(product *model.Product) productResponse {
	return productResponse{
		ID:         product.ID.String(),
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNegativeQuantity), errors.Is(err, service.ErrNegativePrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.WithError(err).Error("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
