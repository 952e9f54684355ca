package avatars

// Config holds the configuration for the avatar resolver and service.
type Config struct {
	// CanonicalWebURL is the public base URL of the host application. When
	// it uses https, generated avatar URLs are upgraded to https as well.
	CanonicalWebURL string `json:"canonical_web_url,omitempty" yaml:"canonical_web_url,omitempty"`
	// DefaultAvatarURL is served when no provider yields an avatar URL.
	DefaultAvatarURL string `json:"default_avatar_url,omitempty" yaml:"default_avatar_url,omitempty"`
	// Strategy defines how providers are consulted (single or fallback).
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	// Providers lists the avatar providers, in lookup order.
	Providers []ProviderConfig `json:"providers" yaml:"providers"`
	// Accounts configures the account directory used by the HTTP service.
	Accounts AccountsConfig `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	// Server holds HTTP service settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
}

// StrategyConfig defines the provider selection strategy.
type StrategyConfig struct {
	Mode StrategyMode `json:"mode" yaml:"mode"`
}

// StrategyMode represents the provider selection mode.
type StrategyMode string

// StrategyMode constants define the supported selection strategies.
const (
	ModeSingle   StrategyMode = "single"
	ModeFallback StrategyMode = "fallback"
)

// ProviderConfig configures one avatar provider instance.
//
// For the external-url type, Config understands the keys url, changeUrl,
// sizeParameter and lowerCase. The legacy type understands url and
// changeUrl.
type ProviderConfig struct {
	Name    string                 `json:"name" yaml:"name"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled bool                   `json:"enabled" yaml:"enabled"`
	Config  map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// AccountsDriver selects the account directory backend.
type AccountsDriver string

// AccountsDriver constants.
const (
	DriverMemory   AccountsDriver = "memory"
	DriverSQLite   AccountsDriver = "sqlite"
	DriverPostgres AccountsDriver = "postgres"
)

// AccountsConfig configures the account directory.
type AccountsConfig struct {
	Driver AccountsDriver `json:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string         `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// CacheSize is the number of cached lookups; 0 disables the cache.
	CacheSize       int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	RateLimit *RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// RateLimitConfig configures per-client rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             float64 `json:"burst,omitempty" yaml:"burst,omitempty"`
}
