package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectBlock(t *testing.T) {
	bd := NewBlockDetector()

	blocked, reason := bd.DetectBlock("Access Denied")
	require.True(t, blocked)
	require.NotEmpty(t, reason)

	blocked, _ = bd.DetectBlock("Request denied")
	require.True(t, blocked)

	blocked, _ = bd.DetectBlock("Eucerin Eczema Relief Cream | CVS Pharmacy")
	require.False(t, blocked)

	blocked, _ = bd.DetectBlock("")
	require.False(t, blocked)
}
