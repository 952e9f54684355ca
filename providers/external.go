package providers

import (
	"fmt"
	"log/slog"
)

// TypeExternalURL is the factory name of the External provider.
const TypeExternalURL = "external-url"

func init() {
	RegisterFactory(TypeExternalURL, func(opts Options) (Provider, error) {
		cfg, err := ExternalConfigFromSettings(opts.Settings, opts.CanonicalWebURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Name, err)
		}
		return NewExternal(opts.Name, cfg), nil
	})
}

// ExternalConfig configures an External provider. It is read-only once the
// provider is built.
type ExternalConfig struct {
	// URL is the avatar URL template.
	URL string
	// ChangeURL is the template of the "change my avatar" page.
	ChangeURL string
	// SizeParameter is appended as a query parameter when a size is
	// requested, e.g. "s=${size}x${size}".
	SizeParameter string
	// LowerCase lowercases every substituted user attribute.
	LowerCase bool
	// ForceHTTPS upgrades an http:// avatar URL template to https://.
	ForceHTTPS bool
}

// ExternalConfigFromSettings reads the url, changeUrl, sizeParameter and
// lowerCase keys from settings.
func ExternalConfigFromSettings(settings map[string]interface{}, canonicalWebURL string) (ExternalConfig, error) {
	cfg := ExternalConfig{ForceHTTPS: isHTTPS(canonicalWebURL)}
	var err error
	if cfg.URL, err = stringSetting(settings, SettingURL); err != nil {
		return cfg, err
	}
	if cfg.ChangeURL, err = stringSetting(settings, SettingChangeURL); err != nil {
		return cfg, err
	}
	if cfg.SizeParameter, err = stringSetting(settings, SettingSizeParameter); err != nil {
		return cfg, err
	}
	if cfg.LowerCase, err = boolSetting(settings, SettingLowerCase, false); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// External resolves avatar URLs from an administrator supplied template.
type External struct {
	name string
	cfg  ExternalConfig
}

// NewExternal creates an External provider.
func NewExternal(name string, cfg ExternalConfig) *External {
	if name == "" {
		name = TypeExternalURL
	}
	return &External{name: name, cfg: cfg}
}

// Name returns the provider name.
func (e *External) Name() string { return e.name }

// Config returns a copy of the provider configuration.
func (e *External) Config() ExternalConfig { return e.cfg }

// URL returns the personalised avatar URL for user, or false when the
// provider is not configured or its template has no placeholder to fill.
func (e *External) URL(user User, imageSize int) (string, bool) {
	if e.cfg.URL == "" {
		slog.Warn("avatar URL is not configured, cannot show avatars",
			"provider", e.name,
			"setting", SettingURL,
		)
		return "", false
	}

	// The host answers with a redirect, so the browser loads the image
	// itself and mixed content matters when the host is served over https.
	template := UpgradeScheme(e.cfg.URL, e.cfg.ForceHTTPS)

	u := SubstitutePlaceholders(template, user, e.cfg.LowerCase)
	if u == template {
		slog.Warn("avatar URL has no placeholder to replace, every user would get the same avatar",
			"provider", e.name,
			"url", e.cfg.URL,
			"account_id", user.AccountID,
		)
		return "", false
	}

	return AppendSizeParameter(u, e.cfg.SizeParameter, imageSize), true
}

// ChangeURL returns the "change avatar" URL for user. The template may be
// placeholder free.
func (e *External) ChangeURL(user User) (string, bool) {
	if e.cfg.ChangeURL == "" {
		return "", false
	}
	return SubstitutePlaceholders(e.cfg.ChangeURL, user, e.cfg.LowerCase), true
}
