// Package providers defines the Provider interface used by the resolver to
// build per-user avatar URLs, plus the built-in provider implementations.
//
// A Provider turns a User and a requested image size into the URL of that
// user's avatar image, and optionally into the URL of a page where the user
// can change it. Providers never fail loudly: when no URL can be produced
// they report it by returning false and leave a diagnostic in the log, and
// the caller falls back to a default avatar.
//
// Built-in provider types are registered by name (see RegisterFactory):
//   - external-url: template substitution of ${user}, ${email} and ${id}.
//   - legacy:       printf-style "%s" username substitution.
package providers

// User is the identity an avatar is resolved for. Empty string fields are
// treated as absent.
type User struct {
	AccountID      int    `json:"account_id"`
	Username       string `json:"username,omitempty"`
	PreferredEmail string `json:"preferred_email,omitempty"`
}

// Provider defines the interface that all avatar providers must implement.
type Provider interface {
	Name() string
	// URL returns the avatar image URL for user. imageSize is the requested
	// edge length in pixels; 0 means no particular size.
	URL(user User, imageSize int) (string, bool)
	// ChangeURL returns the URL of the page where user manages their avatar.
	ChangeURL(user User) (string, bool)
}

// Options carries what a Factory needs to build a provider instance.
type Options struct {
	// Name is the instance name from configuration.
	Name string
	// CanonicalWebURL is the public base URL of the host application. Only
	// its scheme matters: an https canonical URL forces https avatar URLs.
	CanonicalWebURL string
	// Settings holds the provider-specific configuration keys.
	Settings map[string]interface{}
}

// ForceHTTPS reports whether avatar URLs must be upgraded to https.
func (o Options) ForceHTTPS() bool {
	return isHTTPS(o.CanonicalWebURL)
}
