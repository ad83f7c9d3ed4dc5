// Package social maps social platform names to canonical profile URLs and back.
// The platform table mirrors what the card editor offers in its dropdown.
package social

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform describes one supported social platform.
type Platform struct {
	Name        string `json:"name"`
	BaseURL     string `json:"baseUrl"`
	Placeholder string `json:"placeholder"`
}

// PlatformCustomLink is the catch-all entry for arbitrary URLs.
const PlatformCustomLink = "Custom Link"

// platforms is the fixed set of supported platforms, keyed by display name.
var platforms = map[string]Platform{
	"Instagram":        {Name: "Instagram", BaseURL: "https://instagram.com/", Placeholder: "username"},
	"GitHub":           {Name: "GitHub", BaseURL: "https://github.com/", Placeholder: "username"},
	"LinkedIn":         {Name: "LinkedIn", BaseURL: "https://linkedin.com/in/", Placeholder: "username"},
	"Twitter":          {Name: "Twitter", BaseURL: "https://x.com/", Placeholder: "username"},
	"YouTube":          {Name: "YouTube", BaseURL: "https://youtube.com/@", Placeholder: "username"},
	"Facebook":         {Name: "Facebook", BaseURL: "https://facebook.com/", Placeholder: "username"},
	"Pinterest":        {Name: "Pinterest", BaseURL: "https://pinterest.com/", Placeholder: "username"},
	"Snapchat":         {Name: "Snapchat", BaseURL: "https://snapchat.com/add/", Placeholder: "username"},
	"TikTok":           {Name: "TikTok", BaseURL: "https://tiktok.com/@", Placeholder: "username"},
	"Telegram":         {Name: "Telegram", BaseURL: "https://t.me/", Placeholder: "username"},
	"Discord":          {Name: "Discord", BaseURL: "https://discord.gg/", Placeholder: "server-invite"},
	"WhatsApp":         {Name: "WhatsApp", BaseURL: "https://wa.me/", Placeholder: "phone-number"},
	PlatformCustomLink: {Name: PlatformCustomLink, BaseURL: "", Placeholder: "https://example.com"},
}

// platformOrder keeps listing output stable for API responses and auto-sync.
var platformOrder = []string{
	"Instagram", "GitHub", "LinkedIn", "Twitter", "YouTube", "Facebook",
	"Pinterest", "Snapchat", "TikTok", "Telegram", "Discord", "WhatsApp",
	PlatformCustomLink,
}

// notAutoSyncable are platforms whose value is not a plain username, so a
// shared global username cannot be applied to them.
var notAutoSyncable = map[string]bool{
	"WhatsApp":         true,
	"Discord":          true,
	PlatformCustomLink: true,
}

// Lookup returns the platform entry for name, if supported.
func Lookup(name string) (Platform, bool) {
	p, ok := platforms[name]
	return p, ok
}

// Platforms returns all supported platforms in stable order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformOrder))
	for _, name := range platformOrder {
		out = append(out, platforms[name])
	}
	return out
}

// GenerateLink builds a canonical profile URL from a platform name and value.
// Unknown platforms and Custom Link pass the value through, prefixing https://
// when no scheme is present. WhatsApp values are stripped to digits first.
func GenerateLink(platform, value string) string {
	p, ok := platforms[platform]
	if !ok || platform == PlatformCustomLink {
		return ensureScheme(value)
	}
	if platform == "WhatsApp" {
		return p.BaseURL + digitsOnly(value)
	}
	return p.BaseURL + value
}

// ExtractUsername strips a known platform base prefix from a URL to recover
// the username. The URL is returned unchanged when the prefix does not match
// or the platform is unknown / Custom Link.
func ExtractUsername(platform, rawURL string) string {
	p, ok := platforms[platform]
	if !ok || platform == PlatformCustomLink {
		return rawURL
	}
	if strings.HasPrefix(rawURL, p.BaseURL) {
		return strings.TrimPrefix(rawURL, p.BaseURL)
	}
	return rawURL
}

// IsAutoSyncable reports whether a platform profile can be derived from one
// shared global username.
func IsAutoSyncable(platform string) bool {
	_, ok := platforms[platform]
	return ok && !notAutoSyncable[platform]
}

// AutoSyncablePlatforms returns the names of all auto-syncable platforms in
// stable order.
func AutoSyncablePlatforms() []string {
	out := make([]string, 0, len(platformOrder))
	for _, name := range platformOrder {
		if IsAutoSyncable(name) {
			out = append(out, name)
		}
	}
	return out
}

// AutoSyncedLink is one generated platform link for a global username.
type AutoSyncedLink struct {
	Platform     string `json:"platform"`
	Username     string `json:"username"`
	URL          string `json:"url"`
	IsAutoSynced bool   `json:"is_auto_synced"`
}

// GenerateAutoSyncedLinks derives one link per auto-syncable platform from a
// single global username.
func GenerateAutoSyncedLinks(globalUsername string) []AutoSyncedLink {
	names := AutoSyncablePlatforms()
	out := make([]AutoSyncedLink, 0, len(names))
	for _, name := range names {
		out = append(out, AutoSyncedLink{
			Platform:     name,
			Username:     globalUsername,
			URL:          GenerateLink(name, globalUsername),
			IsAutoSynced: true,
		})
	}
	return out
}

// LogoURL returns a favicon URL for a platform, falling back to the hostname
// of rawURL for custom links and to example.com when nothing parses.
func LogoURL(platform, rawURL string) string {
	const favicon = "https://www.google.com/s2/favicons?sz=64&domain=%s"
	if platform != PlatformCustomLink {
		if p, ok := platforms[platform]; ok {
			if u, err := url.Parse(p.BaseURL); err == nil && u.Hostname() != "" {
				return fmt.Sprintf(favicon, u.Hostname())
			}
		}
	}
	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
			return fmt.Sprintf(favicon, u.Hostname())
		}
	}
	return fmt.Sprintf(favicon, "example.com")
}

// DisplayName returns the platform display name, marking auto-synced entries.
func DisplayName(platform string, autoSynced bool) string {
	name := platform
	if p, ok := platforms[platform]; ok {
		name = p.Name
	}
	if autoSynced {
		return name + " (Auto-synced)"
	}
	return name
}

func ensureScheme(value string) string {
	if strings.HasPrefix(value, "http") {
		return value
	}
	return "https://" + value
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
