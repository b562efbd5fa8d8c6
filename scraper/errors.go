package scraper

import "errors"

// Failure taxonomy for a fetch attempt. Every internal failure is reduced
// to one of these at the scraper boundary; callers classify with errors.Is
// for logging only and treat any non-nil error as a failed attempt.
var (
	// ErrNoPriceElement means no selector candidate located an element
	// whose text contains a currency symbol within its wait budget.
	ErrNoPriceElement = errors.New("no price element found")

	// ErrParseFailure means price text was extracted but no two-decimal
	// currency value could be parsed from it.
	ErrParseFailure = errors.New("could not parse price")

	// ErrBlocked means the retailer identified the request as automated
	// and served a denial page instead of the product.
	ErrBlocked = errors.New("blocked by anti-automation protection")

	// ErrDriverUnavailable means the browser-automation driver could not
	// be launched. This is a configuration problem, not a page problem.
	ErrDriverUnavailable = errors.New("browser driver unavailable")
)
