package services

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go-storefront/metrics"
	"go-storefront/utils"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// cfaCountries are the WAEMU members, where prices are shown in CFA francs.
var cfaCountries = map[string]bool{
	"BJ": true, "BF": true, "CI": true, "GW": true,
	"ML": true, "NE": true, "SN": true, "TG": true,
}

// CurrencyForCountry maps an ISO country code to the display currency.
func CurrencyForCountry(country string) Currency {
	if cfaCountries[strings.ToUpper(country)] {
		return XOF
	}
	return EUR
}

type geoResponse struct {
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// GeoLocator picks a default currency from the client's IP address.
type GeoLocator struct {
	client   *resty.Client
	breaker  *gobreaker.CircuitBreaker
	fallback Currency
}

// NewGeoLocator builds a locator querying baseURL/{ip}/json/ (ipapi.co layout).
func NewGeoLocator(baseURL string, timeout time.Duration) *GeoLocator {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geolocation",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(state)
			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})

	return &GeoLocator{client: client, breaker: breaker, fallback: EUR}
}

// DetectCurrency never fails: any lookup problem yields the fallback.
func (g *GeoLocator) DetectCurrency(ctx context.Context, ip string) Currency {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return g.fallback
	}

	res, err := g.breaker.Execute(func() (interface{}, error) {
		var body geoResponse
		resp, err := g.client.R().
			SetContext(ctx).
			SetPathParam("ip", ip).
			SetResult(&body).
			Get("/{ip}/json/")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("geolocation status %d", resp.StatusCode())
		}
		if body.Error {
			return nil, fmt.Errorf("geolocation: %s", body.Reason)
		}
		return &body, nil
	})
	if err != nil {
		utils.Logger(ctx).WithError(err).Warn("currency geolocation failed, using default")
		return g.fallback
	}

	body := res.(*geoResponse)
	if c, err := ParseCurrency(body.Currency); err == nil {
		return c
	}
	return CurrencyForCountry(body.CountryCode)
}
