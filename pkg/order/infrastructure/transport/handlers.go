package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"marketplace/pkg/order/domain/model"
	"marketplace/pkg/order/domain/service"
)

type Handler struct {
	service  service.OrderService
	orders   model.OrderRepository
	products model.ProductReadModelRepository
}

func Router(
	orderService service.OrderService,
	orders model.OrderRepository,
	products model.ProductReadModelRepository,
) http.Handler {
	handler := &Handler{service: orderService, orders: orders, products: products}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/orders", handler.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/orders", handler.createOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders/{ID}", handler.getOrder).Methods(http.MethodGet)
	s.HandleFunc("/orders/{ID}", handler.updateOrder).Methods(http.MethodPut)
	s.HandleFunc("/orders/{ID}", handler.deleteOrder).Methods(http.MethodDelete)
	// local replica browse, useful to inspect synchronization lag
	s.HandleFunc("/products", handler.listProducts).Methods(http.MethodGet)
	return logMiddleware(r)
}

type productSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type orderResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	Quantity        int              `json:"quantity"`
	TotalPriceCents int64            `json:"total_price_cents"`
	CreatedAt       time.Time        `json:"created_at"`
	Product         *productSnapshot `json:"product,omitempty"`
}

type orderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// listOrders denormalizes each order with its replica product snapshot. There
// is no cross-store join; a missing snapshot just means the replica lags.
func (h *Handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := h.orders.FindAll()
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.products.FindAll()
	if err != nil {
		writeError(w, err)
		return
	}

	snapshots := make(map[uuid.UUID]*productSnapshot, len(products))
	for _, product := range products {
		snapshots[product.ID] = toProductSnapshot(&product)
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(&order, snapshots[order.ProductID]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Find(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order, h.snapshotFor(order)))
}

// snapshotFor loads the replica row for the order's product; nil when the
// replica lags or the product is gone.
func (h *Handler) snapshotFor(order *model.Order) *productSnapshot {
	product, err := h.products.Find(order.ProductID)
	if err != nil {
		return nil
	}
	return toProductSnapshot(product)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeOrderRequest(w, r)
	if !ok {
		return
	}

	order, err := h.service.CreateOrder(request.productID, request.quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order, h.snapshotFor(order)))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	request, ok := decodeOrderRequest(w, r)
	if !ok {
		return
	}

	order, err := h.service.UpdateOrder(id, request.productID, request.quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order, h.snapshotFor(order)))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := h.products.FindAll()
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]productSnapshot, 0, len(products))
	for _, product := range products {
		response = append(response, *toProductSnapshot(&product))
	}
	writeJSON(w, http.StatusOK, response)
}

type parsedOrderRequest struct {
	productID uuid.UUID
	quantity  int
}

func decodeOrderRequest(w http.ResponseWriter, r *http.Request) (parsedOrderRequest, bool) {
	var request orderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return parsedOrderRequest{}, false
	}
	productID, err := uuid.Parse(request.ProductID)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return parsedOrderRequest{}, false
	}
	return parsedOrderRequest{productID: productID, quantity: request.Quantity}, true
}

func toProductSnapshot(product *model.ProductReadModel) *productSnapshot {
	return &productSnapshot{
		ID:         product.ID.String(),
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
	}
}

func toOrderResponse(order *model.Order, snapshot *productSnapshot) orderResponse {
	return orderResponse{
		ID:              order.ID.String(),
		ProductID:       order.ProductID.String(),
		Quantity:        order.Quantity,
		TotalPriceCents: order.TotalPriceCents,
		CreatedAt:       order.CreatedAt,
		Product:         snapshot,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
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
	case errors.Is(err, model.ErrOrderNotFound), errors.Is(err, model.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrOutOfStock), errors.Is(err, service.ErrInvalidQuantity):
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
