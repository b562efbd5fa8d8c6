package scraper

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// systemChromiumPath is used when present (Docker images ship Chromium
// here); otherwise the launcher auto-detects a local browser.
const systemChromiumPath = "/usr/bin/chromium-browser"

// BrowserConfig is process-wide browser configuration, constructed once per
// run and passed explicitly into every scraper rather than read from
// ambient state.
type BrowserConfig struct {
	Bin          string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	SelectorWait time.Duration
}

func (c BrowserConfig) withDefaults() BrowserConfig {
	if c.WindowWidth == 0 {
		c.WindowWidth = 1920
	}
	if c.WindowHeight == 0 {
		c.WindowHeight = 1080
	}
	if c.SelectorWait == 0 {
		c.SelectorWait = 10 * time.Second
	}
	return c
}

// stealthScript overrides the properties retailer bot detection inspects
// before any page script runs.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined,
	});
	Object.defineProperty(navigator, 'plugins', {
		get: () => [1, 2, 3, 4, 5],
	});
	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en'],
	});
	Object.defineProperty(navigator, 'platform', {
		get: () => 'Win32',
	});
	window.chrome = {
		runtime: {},
	};
`

// browserSession is a scoped browser resource for a single fetch attempt.
// Close must run on every exit path so no external browser process leaks.
type browserSession struct {
	launcher     *launcher.Launcher
	browser      *rod.Browser
	page         *rod.Page
	selectorWait time.Duration
}

// newBrowserSession launches a browser configured for the given retailer
// profile and opens a blank page. Launch failures mean the automation
// driver is missing or misconfigured, not that the page misbehaved.
func newBrowserSession(cfg BrowserConfig, profile retailerProfile) (*browserSession, error) {
	cfg = cfg.withDefaults()

	headless := cfg.Headless && !profile.VisibleBrowser
	l := launcher.New().
		Headless(headless).
		NoSandbox(true).
		Leakless(false)

	if profile.OffscreenWindow {
		// Visible-mode browsing without the window in the operator's way.
		l = l.Set("window-position", "-2400,-2400")
	}

	switch {
	case cfg.Bin != "":
		l = l.Bin(cfg.Bin)
	default:
		if _, err := os.Stat(systemChromiumPath); err == nil {
			l = l.Bin(systemChromiumPath)
			log.Printf("Using system Chromium at %s", systemChromiumPath)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDriverUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrDriverUnavailable, err)
	}

	session := &browserSession{
		launcher:     l,
		browser:      browser,
		selectorWait: cfg.SelectorWait,
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to open page: %v", err)
	}
	session.page = page

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.WindowWidth,
		Height:            cfg.WindowHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to set viewport: %v", err)
	}

	if profile.StealthPatch {
		if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
			session.Close()
			return nil, fmt.Errorf("failed to install stealth script: %v", err)
		}
	}

	if profile.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: profile.UserAgent,
		})
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("failed to override user agent: %v", err)
		}
	}

	return session, nil
}

// Navigate loads the URL and sleeps the profile's fixed post-navigation
// delay. The delay compensates for client-side rendering; it is not
// adaptive.
func (s *browserSession) Navigate(url string, wait time.Duration) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %v", url, err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %v", err)
	}
	time.Sleep(wait)
	return nil
}

// Title returns the current page title, or "" when it cannot be read.
func (s *browserSession) Title() string {
	result, err := s.page.Eval("document.title")
	if err != nil {
		return ""
	}
	return result.Value.Str()
}

// BodyText returns the rendered text of the whole page.
func (s *browserSession) BodyText() (string, error) {
	result, err := s.page.Eval("document.body.innerText")
	if err != nil {
		return "", fmt.Errorf("failed to read page text: %v", err)
	}
	return result.Value.Str(), nil
}

// Locate resolves one selector candidate within the per-selector wait
// budget. Offscreen nodes (Amazon's a-offscreen spans) report empty
// rendered text, so textContent is consulted as a fallback.
func (s *browserSession) Locate(candidate SelectorCandidate) (string, bool) {
	element, err := s.page.Timeout(s.selectorWait).Element(candidate.Query)
	if err != nil {
		return "", false
	}

	text, err := element.Text()
	if err == nil && strings.TrimSpace(text) != "" {
		return text, true
	}

	result, err := element.Eval("() => this.textContent")
	if err != nil {
		return "", true
	}
	return strings.TrimSpace(result.Value.Str()), true
}

// Close tears the session down: page, browser, then the launched process.
func (s *browserSession) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}
