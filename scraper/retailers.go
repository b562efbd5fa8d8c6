package scraper

import (
	"fmt"
	"log"
	"time"

	"shelfwatch/models"
)

// retailerProfile is the configuration for one retailer variant. The
// variants differ only in configuration; the fetch control flow is shared.
type retailerProfile struct {
	ID             string
	NavigationWait time.Duration
	Selectors      []SelectorCandidate

	// FullTextScan scans the whole rendered page for currency-decimal
	// occurrences instead of targeting elements. CVS markup is unstable
	// enough that attribute-based targeting is unreliable.
	FullTextScan bool

	UserAgent       string
	StealthPatch    bool
	VisibleBrowser  bool
	OffscreenWindow bool
	CheckBlocked    bool
}

var profiles = map[string]retailerProfile{
	"walmart": {
		ID:             "walmart",
		NavigationWait: 3 * time.Second,
		Selectors: []SelectorCandidate{
			{Label: "itemprop price", Query: `[itemprop="price"]`},
			{Label: "automation id", Query: `[data-automation-id*="price"]`},
		},
	},
	"target": {
		ID:             "target",
		NavigationWait: 3 * time.Second,
		Selectors: []SelectorCandidate{
			{Label: "test id", Query: `[data-test="product-price"]`},
			{Label: "class heuristic", Query: `.h-text-bs`},
			{Label: "itemprop price", Query: `[itemprop="price"]`},
		},
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	},
	"walgreens": {
		ID:             "walgreens",
		NavigationWait: 4 * time.Second, // Walgreens needs extra time
		Selectors: []SelectorCandidate{
			{Label: "product price class", Query: `span.product__price`},
			{Label: "class substring", Query: `[class*="price"]`},
		},
	},
	"amazon": {
		ID:             "amazon",
		NavigationWait: 5 * time.Second,
		Selectors: []SelectorCandidate{
			{Label: "offscreen price", Query: `span.a-price span.a-offscreen`},
			{Label: "core price display", Query: `#corePriceDisplay_desktop_feature_div .a-offscreen`},
			{Label: "price whole", Query: `span.a-price-whole`},
			{Label: "legacy our price", Query: `#priceblock_ourprice`},
			{Label: "legacy deal price", Query: `#priceblock_dealprice`},
		},
	},
	"cvs": {
		ID:              "cvs",
		NavigationWait:  8 * time.Second, // CVS needs time to render the price
		FullTextScan:    true,
		StealthPatch:    true,
		VisibleBrowser:  true, // headless mode gets denied far more often
		OffscreenWindow: true,
		CheckBlocked:    true,
	},
}

// Scraper fetches prices from one retailer. A fresh scoped browser session
// is acquired per fetch and torn down on every exit path.
type Scraper struct {
	profile retailerProfile
	cfg     BrowserConfig
	blocks  *BlockDetector
}

// New returns the scraper variant for a retailer identifier.
func New(retailerID string, cfg BrowserConfig) (*Scraper, error) {
	profile, ok := profiles[retailerID]
	if !ok {
		return nil, fmt.Errorf("no scraper for retailer %q", retailerID)
	}
	return &Scraper{
		profile: profile,
		cfg:     cfg,
		blocks:  NewBlockDetector(),
	}, nil
}

// NewAll returns one scraper per supported retailer, in collection order.
func NewAll(cfg BrowserConfig) []*Scraper {
	scrapers := make([]*Scraper, 0, len(models.RetailerIDs))
	for _, id := range models.RetailerIDs {
		s, err := New(id, cfg)
		if err != nil {
			continue
		}
		scrapers = append(scrapers, s)
	}
	return scrapers
}

// RetailerID returns the retailer this scraper targets.
func (s *Scraper) RetailerID() string {
	return s.profile.ID
}

// FetchPrice navigates to the product page and extracts the current price.
// Failures are reduced to the taxonomy sentinels; anything unclassified
// (including panics out of the automation library) surfaces as a generic
// error for logging. The returned point always carries pack size 1 and no
// advertised savings.
func (s *Scraper) FetchPrice(productID, url string) (point *models.PricePoint, err error) {
	defer func() {
		if r := recover(); r != nil {
			point = nil
			err = fmt.Errorf("unexpected error scraping %s at %s: %v", productID, s.profile.ID, r)
		}
	}()

	session, err := newBrowserSession(s.cfg, s.profile)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.Navigate(url, s.profile.NavigationWait); err != nil {
		return nil, err
	}

	if s.profile.CheckBlocked {
		if blocked, reason := s.blocks.DetectBlock(session.Title()); blocked {
			log.Printf("[%s] request blocked for %s (%s)", s.profile.ID, productID, reason)
			return nil, ErrBlocked
		}
	}

	var price float64
	if s.profile.FullTextScan {
		body, berr := session.BodyText()
		if berr != nil {
			return nil, berr
		}
		price, err = FirstSignificantPrice(body)
		if err != nil {
			log.Printf("[%s] could not find price for %s in page text", s.profile.ID, productID)
			return nil, err
		}
	} else {
		text, terr := FirstPriceText(s.profile.Selectors, session.Locate)
		if terr != nil {
			log.Printf("[%s] could not find price for %s", s.profile.ID, productID)
			return nil, terr
		}
		price, err = ParsePrice(text)
		if err != nil {
			log.Printf("[%s] could not parse price from: %q", s.profile.ID, text)
			return nil, err
		}
	}

	return &models.PricePoint{
		ProductID:  productID,
		RetailerID: s.profile.ID,
		Price:      price,
		Timestamp:  time.Now(),
		URL:        url,
		PackSize:   1,
	}, nil
}
