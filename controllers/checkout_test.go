package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderBody() map[string]any {
	return map[string]any{
		"shipping": map[string]any{
			"email": "awa@example.com", "first_name": "Awa", "last_name": "Diop", "phone": "+33612345678",
			"address": "12 rue des Lilas", "city": "Paris", "postal_code": "75011", "country": "FR",
		},
		"payment": map[string]any{
			"method": "card", "card_holder": "Awa Diop", "card_number": "4242 4242 4242 4242",
			"card_expiry": "12/28", "card_cvc": "123",
		},
		"promo_code": "drop10",
	}
}

func (sf *storefront) fillCart(t *testing.T) {
	t.Helper()
	rec := serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items",
		map[string]any{"product_id": sf.dress().ID.Hex(), "size": "M", "color": "Indigo", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlaceOrder_EmptyCartRedirects(t *testing.T) {
	sf := newStorefront(t)

	rec := serve(t, sf.checkout.PlaceOrder, http.MethodPost, "/checkout", orderBody())
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "/cart", body["redirect"])
}

func TestPlaceOrder_Created(t *testing.T) {
	sf := newStorefront(t)
	sf.fillCart(t)

	rec := serve(t, sf.checkout.PlaceOrder, http.MethodPost, "/checkout", orderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decode[models.Order](t, rec)
	assert.Regexp(t, `^SW-`, order.Number)
	assert.InDelta(t, 90.0, order.Subtotal, 0.001)
	assert.InDelta(t, 9.0, order.Discount, 0.001)
	assert.InDelta(t, 5.9, order.ShippingCost, 0.001, "threshold is compared with the discounted subtotal")
	assert.InDelta(t, 86.9, order.TotalAmount, 0.001)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.Len(t, sf.orders.orders, 1)
	require.Len(t, sf.payments.payments, 1)
	assert.Equal(t, 1, sf.promos.codes["DROP10"].CurrentUses)

	rec = serve(t, sf.cart.GetCart, http.MethodGet, "/cart", nil)
	assert.Zero(t, decode[cartResponse](t, rec).TotalItems, "cart is emptied")
}

func TestPlaceOrder_ValidationFields(t *testing.T) {
	sf := newStorefront(t)
	sf.fillCart(t)

	body := orderBody()
	body["shipping"].(map[string]any)["email"] = "not-an-email"
	body["payment"].(map[string]any)["card_cvc"] = "1"

	rec := serve(t, sf.checkout.PlaceOrder, http.MethodPost, "/checkout", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "validation failed", resp["error"])
	assert.NotEmpty(t, resp["fields"])
	assert.Empty(t, sf.orders.orders)
}

func TestPlaceOrder_IdempotencyKey(t *testing.T) {
	sf := newStorefront(t)
	sf.fillCart(t)

	place := func() *httptest.ResponseRecorder {
		return serve(t, sf.checkout.PlaceOrder, http.MethodPost, "/checkout", orderBody(), withHeader("Idempotency-Key", "order-attempt-1"))
	}

	first := place()
	require.Equal(t, http.StatusCreated, first.Code)
	second := place()
	require.Equal(t, http.StatusCreated, second.Code)

	assert.Equal(t, decode[models.Order](t, first).Number, decode[models.Order](t, second).Number)
	assert.Len(t, sf.orders.orders, 1)
}

type quoteView struct {
	Totals    map[string]float64 `json:"totals"`
	Currency  string             `json:"currency"`
	Formatted map[string]string  `json:"formatted"`
}

func TestQuote(t *testing.T) {
	sf := newStorefront(t)
	sf.fillCart(t)

	rec := serve(t, sf.checkout.Quote, http.MethodPost, "/checkout/quote",
		map[string]any{"promo_code": "DROP10", "shipping_option_id": sf.standard.ID.Hex()})
	require.Equal(t, http.StatusOK, rec.Code)

	q := decode[quoteView](t, rec)
	assert.InDelta(t, 90.0, q.Totals["subtotal"], 0.001)
	assert.InDelta(t, 86.9, q.Totals["total"], 0.001)
	assert.Equal(t, "EUR", q.Currency)
	assert.Contains(t, q.Formatted["total"], "€")

	rec = serve(t, sf.checkout.Quote, http.MethodPost, "/checkout/quote", map[string]any{"shipping_option_id": "zz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
