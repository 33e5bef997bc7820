package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
)

// PromoController checks promo codes against the cart and manages them in
// the back office
type PromoController struct {
	Promos *services.PromoService
	Carts  *services.CartService
}

func NewPromoController(promos *services.PromoService, carts *services.CartService) *PromoController {
	return &PromoController{Promos: promos, Carts: carts}
}

// ApplyPromo validates a code against the session cart subtotal. The code
// is only redeemed when the order is placed.
func (pc *PromoController) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	cart := pc.Carts.Open(r.Context(), middleware.Session(r.Context()))
	if cart.IsEmpty() {
		writeServiceError(w, r, services.ErrCartEmpty)
		return
	}
	subtotal := cart.TotalPrice()
	applied, err := pc.Promos.ApplyCode(r.Context(), body.Code, subtotal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	discount := applied.Discount(subtotal)
	code, _ := currencyFromRequest(r)
	conv := services.NewConverter(code)
	writeJSON(w, http.StatusOK, map[string]any{
		"promo":              applied,
		"discount":           discount,
		"formatted_discount": conv.Format(discount),
	})
}

func (pc *PromoController) ListPromoCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := pc.Promos.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codes)
}

func (pc *PromoController) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	var p models.PromoCode
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := pc.Promos.Create(r.Context(), &p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (pc *PromoController) UpdatePromoCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.PromoCode
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = id
	if err := pc.Promos.Update(r.Context(), &p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (pc *PromoController) DeletePromoCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pc.Promos.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
