package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSession = "4f1c2a3e-9d8b-4c7a-8e6f-1a2b3c4d5e6f"

// storefront wires the public controllers on top of in-memory repositories.
type storefront struct {
	products *stubProducts
	promos   *stubPromos
	orders   *stubOrders
	payments *stubPayments
	standard models.ShippingOption

	cart     *CartController
	promo    *PromoController
	shipping *ShippingController
	checkout *CheckoutController
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	threshold := 100.0
	sf := &storefront{
		products: &stubProducts{products: []models.Product{{
			ID: primitive.NewObjectID(), Name: "Wax Dress", Price: 45, Sizes: []string{"S", "M"},
			Colors: []string{"Indigo"}, Stock: 10, IsActive: true,
		}}},
		promos: &stubPromos{codes: map[string]*models.PromoCode{
			"DROP10": {Code: "DROP10", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true},
		}},
		orders:   &stubOrders{},
		payments: &stubPayments{},
		standard: models.ShippingOption{
			ID: primitive.NewObjectID(), Name: "Standard", Price: 5.9, FreeThreshold: &threshold,
			DeliveryDaysMin: 2, DeliveryDaysMax: 4, IsActive: true, SortOrder: 1,
		},
	}

	store := repository.NewMemoryStore(time.Hour)
	carts := services.NewCartService(store)
	catalog := services.NewCatalogService(sf.products, stubCategories{})
	promos := services.NewPromoService(sf.promos)
	shipping := services.NewShippingService(&stubShipping{options: []models.ShippingOption{sf.standard}})
	checkout := services.NewCheckoutService(carts, promos, shipping, sf.orders, sf.payments,
		nopNotifier{}, nopEvents{}, store, 0)

	sf.cart = NewCartController(carts, catalog)
	sf.promo = NewPromoController(promos, carts)
	sf.shipping = NewShippingController(shipping, carts)
	sf.checkout = NewCheckoutController(checkout)
	return sf
}

func (sf *storefront) dress() models.Product {
	return sf.products.products[0]
}

// serve runs h behind the cart session middleware with a fixed session id.
func serve(t *testing.T, h http.HandlerFunc, method, target string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, testSession)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	middleware.CartSession(h).ServeHTTP(rec, req)
	return rec
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func withHeader(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func withVars(h http.HandlerFunc, vars map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, mux.SetURLVars(r, vars))
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
