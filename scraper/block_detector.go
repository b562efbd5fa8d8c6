package scraper

import (
	"regexp"
	"strings"
)

// BlockDetector recognizes anti-automation denial pages. Blocking is
// probabilistic rather than deterministic (CVS denies roughly 40% of
// attempts), so a block is reported as its own outcome and operators retry
// or fall back to visible-mode browsing.
type BlockDetector struct {
	patterns []*regexp.Regexp
}

func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)access denied`),
			regexp.MustCompile(`(?i)\bdenied\b`),
			regexp.MustCompile(`(?i)verify you are human`),
			regexp.MustCompile(`(?i)robot or human`),
			regexp.MustCompile(`(?i)captcha`),
			regexp.MustCompile(`(?i)checking your browser`),
			regexp.MustCompile(`(?i)too many requests`),
		},
	}
}

// DetectBlock reports whether the page title indicates a denial response,
// along with the pattern that matched.
func (bd *BlockDetector) DetectBlock(pageTitle string) (bool, string) {
	title := strings.ToLower(pageTitle)
	for _, pattern := range bd.patterns {
		if pattern.MatchString(title) {
			return true, pattern.String()
		}
	}
	return false, ""
}
