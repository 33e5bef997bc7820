package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-storefront/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieValue(res *http.Response, name string) string {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestGetCurrency_DetectsOnFirstVisit(t *testing.T) {
	geo := &fixedDetector{code: services.XOF}
	pc := NewPreferencesController(geo)

	rec := serve(t, pc.GetCurrency, http.MethodGet, "/preferences/currency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "XOF", body["currency"])
	assert.Equal(t, "geolocation", body["source"])
	assert.Equal(t, "XOF", cookieValue(rec.Result(), CurrencyCookie))
	assert.Equal(t, 1, geo.calls)

	rec = serve(t, pc.GetCurrency, http.MethodGet, "/preferences/currency", nil, withCookie(CurrencyCookie, "EUR"))
	body = decode[map[string]any](t, rec)
	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, "cookie", body["source"])
	assert.Equal(t, 1, geo.calls, "saved preference skips the lookup")
}

func TestSetCurrency(t *testing.T) {
	pc := NewPreferencesController(nil)

	rec := serve(t, pc.SetCurrency, http.MethodPut, "/preferences/currency", map[string]string{"currency": "xof"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "XOF", cookieValue(rec.Result(), CurrencyCookie))

	rec = serve(t, pc.SetCurrency, http.MethodPut, "/preferences/currency", map[string]string{"currency": "USD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetConsent(t *testing.T) {
	pc := NewPreferencesController(nil)

	rec := serve(t, pc.SetConsent, http.MethodPost, "/preferences/consent", map[string]bool{"accepted": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "declined", cookieValue(rec.Result(), ConsentCookie))
}

type healthView struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := serve(t, NewHealthController(map[string]Check{"mongo": ok, "redis": ok}).Health, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])

	rec = serve(t, NewHealthController(map[string]Check{"mongo": ok, "redis": down}).Health, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[healthView](t, rec)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "connection refused", body.Checks["redis"])
	assert.Equal(t, "ok", body.Checks["mongo"])
}
