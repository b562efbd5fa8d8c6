package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		text  string
		want  float64
		found bool
	}{
		{"$12.99", 12.99, true},
		{"Now $12.99", 12.99, true},
		{"$ 12.99", 12.99, true},
		{"12.99", 12.99, true},
		{"$1,299.00", 1299.00, true},
		{"current price $4.49 was $5.99", 4.49, true},
		{"Save $5", 0, false},
		{"$5", 0, false},
		{"", 0, false},
		{"no prices here", 0, false},
	}

	for _, c := range cases {
		price, err := ParsePrice(c.text)
		if !c.found {
			require.ErrorIs(t, err, ErrParseFailure, "text %q", c.text)
			continue
		}
		require.NoError(t, err, "text %q", c.text)
		require.Equal(t, c.want, price, "text %q", c.text)
	}
}

func TestScanAllPrices(t *testing.T) {
	text := "Sign in $0.00 cart\nEucerin Eczema Relief $14.79\nSave $2.50 with coupon\nWas $17.29"
	prices := ScanAllPrices(text)
	require.Equal(t, []float64{0.00, 14.79, 2.50, 17.29}, prices)
}

func TestFirstSignificantPrice(t *testing.T) {
	price, err := FirstSignificantPrice("cart $0.00 subtotal $0.00 item $8.49 was $9.99")
	require.NoError(t, err)
	require.Equal(t, 8.49, price)

	_, err = FirstSignificantPrice("no prices rendered yet")
	require.ErrorIs(t, err, ErrNoPriceElement)

	_, err = FirstSignificantPrice("cart $0.00 subtotal $0.00")
	require.ErrorIs(t, err, ErrParseFailure)
}
