package transport

import (
	"net/http"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/middleware"
)

// RecordOrder handles POST /api/orders
func (h *Handler) RecordOrder(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateOrderInput
	if !h.decode(w, r, &input) {
		return
	}

	order, err := h.catalog.Orders.Record(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders, newest first
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.catalog.Orders.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Stats handles GET /api/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats.Compute(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.LoginInput
	if !h.decode(w, r, &input) {
		return
	}

	result, err := h.catalog.Admins.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}
