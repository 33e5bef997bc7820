package controllers

import (
	"net/http"
	"strings"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
)

// CheckoutController prices and places orders for the session cart
type CheckoutController struct {
	Checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Checkout: checkout}
}

type quoteRequest struct {
	PromoCode        string `json:"promo_code"`
	ShippingOptionID string `json:"shipping_option_id"`
}

type quoteResponse struct {
	*services.Quote
	Currency  services.Currency `json:"currency"`
	Formatted map[string]string `json:"formatted"`
}

func formatTotals(t services.Totals, conv services.Converter) map[string]string {
	return map[string]string{
		"subtotal": conv.Format(t.Subtotal),
		"discount": conv.Format(t.Discount),
		"shipping": conv.Format(t.Shipping),
		"total":    conv.Format(t.Total),
	}
}

// Quote returns the price breakdown shown beside every checkout step.
func (cc *CheckoutController) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	optionID, err := optionalID(req.ShippingOptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shipping option ID")
		return
	}
	q, err := cc.Checkout.Quote(r.Context(), middleware.Session(r.Context()), req.PromoCode, optionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	code, _ := currencyFromRequest(r)
	conv := services.NewConverter(code)
	writeJSON(w, http.StatusOK, quoteResponse{Quote: q, Currency: conv.Code, Formatted: formatTotals(q.Totals, conv)})
}

type placeOrderRequest struct {
	Shipping         models.ShippingAddress `json:"shipping"`
	ShippingOptionID string                 `json:"shipping_option_id"`
	Payment          services.PaymentInfo   `json:"payment"`
	PromoCode        string                 `json:"promo_code"`
}

// PlaceOrder submits the last checkout step. Guests may order; a valid
// token links the order to the account. A repeated Idempotency-Key returns
// the order placed the first time.
func (cc *CheckoutController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	optionID, err := optionalID(req.ShippingOptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shipping option ID")
		return
	}
	code, _ := currencyFromRequest(r)

	order, err := cc.Checkout.PlaceOrder(r.Context(), services.CheckoutRequest{
		Session:          middleware.Session(r.Context()),
		UserID:           middleware.UserID(r.Context()),
		Shipping:         req.Shipping,
		ShippingOptionID: optionID,
		Payment:          req.Payment,
		PromoCode:        req.PromoCode,
		Currency:         code,
		IdempotencyKey:   strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
