package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// pricePattern matches a currency-decimal value with exactly two decimal
// places and an optional leading dollar sign. Thousands grouping is
// accepted ("$1,299.00") and stripped before parsing. Integers and
// malformed fragments never match, so promotional text like "Save $5" is
// ignored rather than guessed at.
var pricePattern = regexp.MustCompile(`\$?\s*(\d{1,3}(?:,\d{3})+\.\d{2}|\d+\.\d{2})`)

// allPricesPattern finds every $XX.XX occurrence in free text. Used for
// the full-page scan where no element-level targeting is possible.
var allPricesPattern = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})*|\d+)\.(\d{2})`)

// ParsePrice extracts the first two-decimal currency value from raw text.
// Returns ErrParseFailure when the text holds no such value.
func ParsePrice(text string) (float64, error) {
	match := pricePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, ErrParseFailure
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0, ErrParseFailure
	}
	return value, nil
}

// ScanAllPrices returns every two-decimal dollar amount found in text, in
// document order.
func ScanAllPrices(text string) []float64 {
	var prices []float64
	for _, match := range allPricesPattern.FindAllStringSubmatch(text, -1) {
		whole := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(whole+"."+match[2], 64)
		if err != nil {
			continue
		}
		prices = append(prices, value)
	}
	return prices
}

// FirstSignificantPrice scans free text and returns the first non-zero
// dollar amount. The main product price is typically the first significant
// price rendered; $0.00 placeholders are skipped.
func FirstSignificantPrice(text string) (float64, error) {
	prices := ScanAllPrices(text)
	if len(prices) == 0 {
		return 0, ErrNoPriceElement
	}
	for _, price := range prices {
		if price > 0 {
			return price, nil
		}
	}
	return 0, ErrParseFailure
}
