package controllers

import (
	"net/http"

	"go-storefront/services"
)

// AdminController serves the back office dashboard
type AdminController struct {
	Stats    *services.StatsService
	Payments services.PaymentRepository
}

func NewAdminController(stats *services.StatsService, payments services.PaymentRepository) *AdminController {
	return &AdminController{Stats: stats, Payments: payments}
}

func (ac *AdminController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ac.Stats.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (ac *AdminController) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := ac.Stats.Customers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (ac *AdminController) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := ac.Payments.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
