package app

import (
	"testing"
	"time"

	"github.com/leadforge/site/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginAllowed(t *testing.T) {
	allow := originAllowed("https://leadforge.io/", []string{"*.leadforge.io", "localhost:*", "https://partner.example.com"})
	cases := map[string]bool{
		"https://leadforge.io":          true,
		"http://leadforge.io":           false,
		"https://admin.leadforge.io":    true,
		"https://leadforge.io.evil.com": false,
		"http://localhost:5173":         true,
		"https://partner.example.com":   true,
		"http://partner.example.com":    false,
		"https://other.io":              false,
		"null":                          false,
	}
	for origin, want := range cases {
		assert.Equal(t, want, allow(origin), origin)
	}
}

func TestOriginAllowedBareHost(t *testing.T) {
	allow := originAllowed("", []string{"LeadForge.io"})
	assert.True(t, allow("https://leadforge.io"))
	assert.True(t, allow("http://leadforge.io"))
	assert.False(t, allow("https://www.leadforge.io"))
}

func TestCORSConfigRestrictsOriginsInProduction(t *testing.T) {
	cfg := &config.AppConfig{
		Env:            "production",
		AllowedOrigins: []string{"*.leadforge.io"},
		Site:           config.SiteConfig{URL: "https://leadforge.io"},
	}
	c := corsConfig(cfg)
	assert.True(t, c.AllowOriginFunc("https://www.leadforge.io"))
	assert.True(t, c.AllowOriginFunc("https://leadforge.io"))
	assert.False(t, c.AllowOriginFunc("https://example.com"))

	cfg.Env = "development"
	assert.True(t, corsConfig(cfg).AllowOriginFunc("https://example.com"))
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("+02:00")
	require.NoError(t, err)
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7200, offset)

	_, err = parseTimezoneLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "42s", humanizeDuration(42*time.Second+300*time.Millisecond))
	assert.Equal(t, "3m0s", humanizeDuration(3*time.Minute+20*time.Second))
}
