package scraper

import (
	"strings"
)

// SelectorCandidate is one locator in a fallback chain: a CSS selector
// expression plus a label for log lines. Retailer page markup changes
// frequently and differs between rendering paths, so each retailer carries
// an ordered chain from most specific to most generic.
type SelectorCandidate struct {
	Label string
	Query string
}

// LocateFunc resolves a single candidate against the rendered page,
// returning the element's text. ok is false when no element was located
// within the candidate's wait budget; an element with empty text reports
// ok=true with empty text.
type LocateFunc func(candidate SelectorCandidate) (text string, ok bool)

// FirstPriceText tries candidates in order and returns the text of the
// first one that both locates an element and whose text contains a dollar
// sign. Later candidates are never consulted once one wins; a located
// element without a currency symbol does not win and does not stop the
// chain. Returns ErrNoPriceElement when the chain is exhausted.
func FirstPriceText(candidates []SelectorCandidate, locate LocateFunc) (string, error) {
	for _, candidate := range candidates {
		text, ok := locate(candidate)
		if !ok {
			continue
		}
		if strings.Contains(text, "$") {
			return text, nil
		}
	}
	return "", ErrNoPriceElement
}
