package providers

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// TypeLegacy is the factory name of the Legacy provider.
const TypeLegacy = "legacy"

// LegacyMarker is the username marker used by Legacy URL templates.
const LegacyMarker = "%s"

func init() {
	RegisterFactory(TypeLegacy, func(opts Options) (Provider, error) {
		u, err := stringSetting(opts.Settings, SettingURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Name, err)
		}
		change, err := stringSetting(opts.Settings, SettingChangeURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Name, err)
		}
		return NewLegacy(opts.Name, u, change, opts.ForceHTTPS()), nil
	})
}

// Legacy supports older configurations where the avatar URL carries a single
// "%s" username marker and the change URL is a fixed page.
type Legacy struct {
	name       string
	url        string
	changeURL  string
	forceHTTPS bool
}

// NewLegacy creates a Legacy provider.
func NewLegacy(name, avatarURL, changeURL string, forceHTTPS bool) *Legacy {
	if name == "" {
		name = TypeLegacy
	}
	return &Legacy{name: name, url: avatarURL, changeURL: changeURL, forceHTTPS: forceHTTPS}
}

// Name returns the provider name.
func (l *Legacy) Name() string { return l.name }

// URL replaces the first %s of the template with the user's name. Users
// without a username get no avatar. imageSize is ignored.
func (l *Legacy) URL(user User, _ int) (string, bool) {
	if user.Username == "" {
		return "", false
	}
	if l.url == "" {
		slog.Warn("avatar URL is not configured, cannot show avatars",
			"provider", l.name,
			"setting", SettingURL,
		)
		return "", false
	}
	if !strings.Contains(l.url, LegacyMarker) {
		slog.Warn("avatar URL does not contain %s, cannot replace it with username",
			"provider", l.name,
			"url", l.url,
		)
		return "", false
	}

	template := UpgradeScheme(l.url, l.forceHTTPS)
	return strings.Replace(template, LegacyMarker, url.QueryEscape(user.Username), 1), true
}

// ChangeURL returns the configured change URL unchanged.
func (l *Legacy) ChangeURL(_ User) (string, bool) {
	return l.changeURL, l.changeURL != ""
}
