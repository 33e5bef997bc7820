package services

import (
	"errors"
	"math"
	"strings"

	"go-storefront/utils"
)

// Currency is an ISO 4217 code the shop can display prices in.
type Currency string

const (
	EUR Currency = "EUR"
	XOF Currency = "XOF"
)

// XOFPerEUR is the fixed CFA franc peg.
const XOFPerEUR = utils.XOFPerEUR

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ParseCurrency accepts EUR or XOF in any case.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case EUR:
		return EUR, nil
	case XOF:
		return XOF, nil
	}
	return "", ErrUnsupportedCurrency
}

// Converter turns catalog prices, stored in euros, into the selected currency.
type Converter struct {
	Code Currency
	Rate float64
}

func NewConverter(code Currency) Converter {
	rate := 1.0
	if code == XOF {
		rate = XOFPerEUR
	} else {
		code = EUR
	}
	return Converter{Code: code, Rate: rate}
}

// Convert returns priceEUR in the selected currency. CFA francs have no
// minor unit so XOF amounts are rounded to the unit.
func (c Converter) Convert(priceEUR float64) float64 {
	if c.Code == XOF {
		return math.Round(priceEUR * c.Rate)
	}
	return priceEUR
}

// Format renders priceEUR for display, e.g. "45,00 €" or "29 518 FCFA".
func (c Converter) Format(priceEUR float64) string {
	return utils.FormatPrice(string(c.Code), priceEUR)
}
