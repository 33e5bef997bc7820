package controllers

import (
	"context"
	"net/http"
	"time"

	"go-storefront/middleware"
	"go-storefront/services"
)

const (
	CurrencyCookie = "preferred_currency"
	ConsentCookie  = "cookie_consent"
	prefMaxAge     = 365 * 24 * time.Hour
)

// CurrencyDetector guesses a visitor's currency from their IP address.
type CurrencyDetector interface {
	DetectCurrency(ctx context.Context, ip string) services.Currency
}

type PreferencesController struct {
	Geo CurrencyDetector
}

func NewPreferencesController(geo CurrencyDetector) *PreferencesController {
	return &PreferencesController{Geo: geo}
}

// currencyFromRequest returns the currency stored in the preference cookie.
func currencyFromRequest(r *http.Request) (services.Currency, bool) {
	c, err := r.Cookie(CurrencyCookie)
	if err != nil {
		return services.EUR, false
	}
	code, err := services.ParseCurrency(c.Value)
	if err != nil {
		return services.EUR, false
	}
	return code, true
}

func setPrefCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(prefMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func currencyView(code services.Currency, source string) map[string]any {
	conv := services.NewConverter(code)
	return map[string]any{
		"currency": conv.Code,
		"rate":     conv.Rate,
		"source":   source,
		"example":  conv.Format(100),
	}
}

// GetCurrency returns the saved currency, or detects one from the client
// address on the first visit and saves it.
func (pc *PreferencesController) GetCurrency(w http.ResponseWriter, r *http.Request) {
	if code, ok := currencyFromRequest(r); ok {
		writeJSON(w, http.StatusOK, currencyView(code, "cookie"))
		return
	}
	code := services.EUR
	if pc.Geo != nil {
		code = pc.Geo.DetectCurrency(r.Context(), middleware.ClientIP(r))
	}
	setPrefCookie(w, CurrencyCookie, string(code))
	writeJSON(w, http.StatusOK, currencyView(code, "geolocation"))
}

func (pc *PreferencesController) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Currency string `json:"currency"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	code, err := services.ParseCurrency(body.Currency)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	setPrefCookie(w, CurrencyCookie, string(code))
	writeJSON(w, http.StatusOK, currencyView(code, "cookie"))
}

// SetConsent records the cookie banner answer.
func (pc *PreferencesController) SetConsent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Accepted bool `json:"accepted"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	value := "declined"
	if body.Accepted {
		value = "accepted"
	}
	setPrefCookie(w, ConsentCookie, value)
	writeJSON(w, http.StatusOK, map[string]string{"consent": value})
}
