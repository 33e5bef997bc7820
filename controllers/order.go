package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
)

// OrderController serves order history and the back office order list
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrders lists the authenticated user's orders, newest first.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orders, err := oc.Orders.ListForUser(r.Context(), *userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListOrders lists all orders, filtered by the status query parameter.
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.Orders.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	order, err := oc.Orders.UpdateStatus(r.Context(), id, body.Status, body.TrackingNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
