package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPromo(t *testing.T) {
	sf := newStorefront(t)

	rec := serve(t, sf.promo.ApplyPromo, http.MethodPost, "/promo/apply", map[string]string{"code": "DROP10"})
	require.Equal(t, http.StatusConflict, rec.Code, "empty cart")

	sf.fillCart(t)

	rec = serve(t, sf.promo.ApplyPromo, http.MethodPost, "/promo/apply", map[string]string{"code": " drop10 "})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.InDelta(t, 9.0, body["discount"], 0.001)
	assert.Zero(t, sf.promos.codes["DROP10"].CurrentUses, "applying does not redeem")

	rec = serve(t, sf.promo.ApplyPromo, http.MethodPost, "/promo/apply", map[string]string{"code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShippingOptions_PricedForCart(t *testing.T) {
	sf := newStorefront(t)
	sf.fillCart(t)

	rec := serve(t, sf.shipping.GetShippingOptions, http.MethodGet, "/shipping-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[[]shippingOptionView](t, rec)
	require.Len(t, opts, 1)
	assert.InDelta(t, 5.9, opts[0].Cost, 0.001)
}
