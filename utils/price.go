// utils/price.go
package utils

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// XOFPerEUR is the fixed CFA franc peg.
const XOFPerEUR = 655.957

// FormatPrice renders an amount held in euros in the given display currency,
// e.g. "45,00 €" or "29 518 FCFA". Unknown codes fall back to euros.
func FormatPrice(currency string, amountEUR float64) string {
	p := message.NewPrinter(language.French)
	if strings.EqualFold(currency, "XOF") {
		return p.Sprintf("%d FCFA", int64(math.Round(amountEUR*XOFPerEUR)))
	}
	return p.Sprintf("%.2f €", amountEUR)
}
