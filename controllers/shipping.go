package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
)

type ShippingController struct {
	Shipping *services.ShippingService
	Carts    *services.CartService
}

func NewShippingController(shipping *services.ShippingService, carts *services.CartService) *ShippingController {
	return &ShippingController{Shipping: shipping, Carts: carts}
}

type shippingOptionView struct {
	models.ShippingOption
	Cost          float64 `json:"cost"`
	FormattedCost string  `json:"formatted_cost"`
}

// GetShippingOptions lists active options priced for the session cart
// before any promo code.
func (sc *ShippingController) GetShippingOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := sc.Shipping.Active(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	subtotal := sc.Carts.Open(r.Context(), middleware.Session(r.Context())).TotalPrice()
	code, _ := currencyFromRequest(r)
	conv := services.NewConverter(code)

	out := make([]shippingOptionView, 0, len(opts))
	for _, o := range opts {
		cost := services.ShippingCost(o, subtotal)
		out = append(out, shippingOptionView{ShippingOption: o, Cost: cost, FormattedCost: conv.Format(cost)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (sc *ShippingController) ListAll(w http.ResponseWriter, r *http.Request) {
	opts, err := sc.Shipping.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (sc *ShippingController) CreateOption(w http.ResponseWriter, r *http.Request) {
	var o models.ShippingOption
	if !decodeJSON(w, r, &o) {
		return
	}
	if err := sc.Shipping.Create(r.Context(), &o); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (sc *ShippingController) UpdateOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var o models.ShippingOption
	if !decodeJSON(w, r, &o) {
		return
	}
	o.ID = id
	if err := sc.Shipping.Update(r.Context(), &o); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (sc *ShippingController) DeleteOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := sc.Shipping.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
