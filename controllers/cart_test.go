package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartFlow(t *testing.T) {
	sf := newStorefront(t)
	dress := sf.dress()

	rec := serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items",
		map[string]any{"product_id": dress.ID.Hex(), "size": "m", "color": "indigo"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSession, rec.Header().Get("X-Cart-Session"))

	cart := decode[cartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "M", cart.Items[0].Size, "stored with the product's spelling")
	assert.Equal(t, "Indigo", cart.Items[0].Color)
	assert.Equal(t, 1, cart.Items[0].Quantity, "missing quantity means one")

	rec = serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items",
		map[string]any{"product_id": dress.ID.Hex(), "size": "M", "color": "Indigo", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	require.Len(t, cart.Items, 1, "same variant merges into one line")
	assert.Equal(t, 3, cart.TotalItems)
	assert.InDelta(t, 135.0, cart.TotalPrice, 0.001)
	assert.Equal(t, "EUR", string(cart.Currency))

	rec = serve(t, sf.cart.UpdateCartItem, http.MethodPut, "/cart/items",
		map[string]any{"product_id": dress.ID.Hex(), "size": "M", "color": "Indigo", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[cartResponse](t, rec).TotalItems)

	rec = serve(t, sf.cart.UpdateCartItem, http.MethodPut, "/cart/items",
		map[string]any{"product_id": dress.ID.Hex(), "size": "m", "color": "indigo", "quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	require.Len(t, cart.Items, 1, "spelling accepted by add targets the same line")
	assert.Equal(t, 5, cart.TotalItems)

	rec = serve(t, sf.cart.RemoveFromCart, http.MethodDelete,
		"/cart/items?product_id="+dress.ID.Hex()+"&size=m&color=indigo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestGetCart_PreferredCurrency(t *testing.T) {
	sf := newStorefront(t)
	dress := sf.dress()
	serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items",
		map[string]any{"product_id": dress.ID.Hex(), "size": "S", "color": "Indigo"})

	rec := serve(t, sf.cart.GetCart, http.MethodGet, "/cart", nil, withCookie(CurrencyCookie, "XOF"))
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[cartResponse](t, rec)
	assert.Equal(t, "XOF", string(cart.Currency))
	assert.InDelta(t, 45.0, cart.TotalPrice, 0.001, "stored prices stay in euros")
	assert.InDelta(t, 29518.0, cart.DisplayTotal, 1)
	assert.Contains(t, cart.FormattedTotal, "FCFA")
}

func TestAddToCart_Rejections(t *testing.T) {
	sf := newStorefront(t)
	dress := sf.dress()

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad id", map[string]any{"product_id": "nope", "size": "M", "color": "Indigo"}, http.StatusBadRequest},
		{"negative quantity", map[string]any{"product_id": dress.ID.Hex(), "size": "M", "color": "Indigo", "quantity": -1}, http.StatusBadRequest},
		{"unknown size", map[string]any{"product_id": dress.ID.Hex(), "size": "XXL", "color": "Indigo"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"product_id": dress.ID.Hex(), "sku": "x"}, http.StatusBadRequest},
		{"unknown product", map[string]any{"product_id": "64b7f0c2a1b2c3d4e5f60718", "size": "M", "color": "Indigo"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestClearCart(t *testing.T) {
	sf := newStorefront(t)
	serve(t, sf.cart.AddToCart, http.MethodPost, "/cart/items",
		map[string]any{"product_id": sf.dress().ID.Hex(), "size": "S", "color": "Indigo"})

	rec := serve(t, sf.cart.ClearCart, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[cartResponse](t, rec).TotalItems)
}
