package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLink(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		value    string
		expected string
	}{
		{"instagram", "Instagram", "johndoe", "https://instagram.com/johndoe"},
		{"github", "GitHub", "johndoe", "https://github.com/johndoe"},
		{"linkedin", "LinkedIn", "johndoe", "https://linkedin.com/in/johndoe"},
		{"twitter points at x.com", "Twitter", "johndoe", "https://x.com/johndoe"},
		{"youtube handle", "YouTube", "johndoe", "https://youtube.com/@johndoe"},
		{"tiktok handle", "TikTok", "johndoe", "https://tiktok.com/@johndoe"},
		{"telegram", "Telegram", "johndoe", "https://t.me/johndoe"},
		{"whatsapp strips non-digits", "WhatsApp", "+62 812-3456-789", "https://wa.me/628123456789"},
		{"custom link keeps url", "Custom Link", "https://example.com/me", "https://example.com/me"},
		{"custom link adds scheme", "Custom Link", "example.com/me", "https://example.com/me"},
		{"unknown platform passes through", "Myspace", "example.com/me", "https://example.com/me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateLink(tt.platform, tt.value))
		})
	}
}

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		url      string
		expected string
	}{
		{"instagram", "Instagram", "https://instagram.com/johndoe", "johndoe"},
		{"youtube handle", "YouTube", "https://youtube.com/@johndoe", "johndoe"},
		{"mismatched prefix unchanged", "Instagram", "https://example.com/johndoe", "https://example.com/johndoe"},
		{"custom link unchanged", "Custom Link", "https://example.com/me", "https://example.com/me"},
		{"unknown platform unchanged", "Myspace", "https://myspace.com/me", "https://myspace.com/me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractUsername(tt.platform, tt.url))
		})
	}
}

func TestGenerateExtractRoundTrip(t *testing.T) {
	for _, name := range AutoSyncablePlatforms() {
		link := GenerateLink(name, "johndoe")
		assert.Equal(t, "johndoe", ExtractUsername(name, link), "platform %s", name)
	}
}

func TestIsAutoSyncable(t *testing.T) {
	assert.True(t, IsAutoSyncable("Instagram"))
	assert.True(t, IsAutoSyncable("GitHub"))

	// Platforms whose value is not a plain username are excluded.
	assert.False(t, IsAutoSyncable("WhatsApp"))
	assert.False(t, IsAutoSyncable("Discord"))
	assert.False(t, IsAutoSyncable(PlatformCustomLink))

	assert.False(t, IsAutoSyncable("Myspace"))
}

func TestGenerateAutoSyncedLinks(t *testing.T) {
	links := GenerateAutoSyncedLinks("johndoe")
	require.Len(t, links, len(AutoSyncablePlatforms()))

	for _, l := range links {
		assert.Equal(t, "johndoe", l.Username)
		assert.True(t, l.IsAutoSynced)
		assert.Equal(t, GenerateLink(l.Platform, "johndoe"), l.URL)
	}

	// Stable order, matching the platform listing.
	assert.Equal(t, "Instagram", links[0].Platform)
}

func TestPlatformsStableOrder(t *testing.T) {
	a := Platforms()
	b := Platforms()
	require.Equal(t, a, b)
	assert.Equal(t, "Instagram", a[0].Name)
	assert.Equal(t, PlatformCustomLink, a[len(a)-1].Name)
}

func TestLogoURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/s2/favicons?sz=64&domain=instagram.com",
		LogoURL("Instagram", ""))
	assert.Equal(t,
		"https://www.google.com/s2/favicons?sz=64&domain=example.com",
		LogoURL(PlatformCustomLink, "https://example.com/me"))
	assert.Equal(t,
		"https://www.google.com/s2/favicons?sz=64&domain=example.com",
		LogoURL(PlatformCustomLink, ""))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Instagram", DisplayName("Instagram", false))
	assert.Equal(t, "Instagram (Auto-synced)", DisplayName("Instagram", true))
	assert.Equal(t, "Myspace", DisplayName("Myspace", false))
}
