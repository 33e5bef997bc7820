package services

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" xof ")
	require.NoError(t, err)
	assert.Equal(t, XOF, c)

	c, err = ParseCurrency("EUR")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	_, err = ParseCurrency("USD")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConverter_XOF(t *testing.T) {
	conv := NewConverter(XOF)

	assert.Equal(t, 29518.0, conv.Convert(45))

	out := conv.Format(45)
	assert.True(t, strings.HasSuffix(out, "FCFA"), out)
	assert.Equal(t, "29518", digitsOnly(out))
	// 29518 has five digits so a grouping separator must appear
	assert.NotEqual(t, "29518 FCFA", out)
}

func TestConverter_EUR(t *testing.T) {
	conv := NewConverter(EUR)

	assert.Equal(t, 45.5, conv.Convert(45.5))
	out := conv.Format(45.5)
	assert.True(t, strings.HasSuffix(out, "€"), out)
	assert.Equal(t, "4550", digitsOnly(out))
}

func TestNewConverter_UnknownFallsBackToEUR(t *testing.T) {
	conv := NewConverter(Currency("USD"))
	assert.Equal(t, EUR, conv.Code)
	assert.Equal(t, 1.0, conv.Rate)
}
