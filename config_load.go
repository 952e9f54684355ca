package avatars

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ferro-labs/avatars-external/providers"
)

//go:embed config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(configSchemaURL, bytes.NewReader(configSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("loading config schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(configSchemaURL)
	})
	return schema, schemaErr
}

// LoadConfig reads and parses a config file from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &cfg, nil
}

// ValidateConfig validates a Config for correctness. A provider without an
// avatar URL is not an error: it resolves nothing at runtime and is reported
// by ConfigWarnings instead.
func ValidateConfig(cfg Config) error {
	mode := cfg.Strategy.Mode
	if mode == "" {
		mode = ModeSingle
	}
	switch mode {
	case ModeSingle, ModeFallback:
	default:
		return fmt.Errorf("unknown strategy mode: %q", cfg.Strategy.Mode)
	}

	enabled := 0
	seen := make(map[string]struct{}, len(cfg.Providers))
	for i, p := range cfg.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if _, ok := providers.GetFactory(p.Type); !ok {
			return fmt.Errorf("provider %q has unknown type %q", p.Name, p.Type)
		}
		if p.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one enabled provider is required")
	}

	switch cfg.Accounts.Driver {
	case "", DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(cfg.Accounts.DSN) == "" {
			return fmt.Errorf("accounts driver %q requires a dsn", cfg.Accounts.Driver)
		}
	default:
		return fmt.Errorf("unknown accounts driver: %q", cfg.Accounts.Driver)
	}

	return validateSchema(cfg)
}

func validateSchema(cfg Config) error {
	s, err := configSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding config for validation: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}

// ConfigWarnings reports settings that are valid but will make enabled
// providers resolve nothing, or resolve the same avatar for everyone.
func ConfigWarnings(cfg Config) []string {
	var warnings []string
	for _, p := range cfg.Providers {
		if !p.Enabled {
			continue
		}
		u, _ := p.Config[providers.SettingURL].(string)
		if u == "" {
			warnings = append(warnings, fmt.Sprintf("provider %q: %s is not configured, avatars cannot be shown", p.Name, providers.SettingURL))
			continue
		}
		switch p.Type {
		case providers.TypeExternalURL:
			if !hasPlaceholder(u) {
				warnings = append(warnings, fmt.Sprintf("provider %q: %s contains none of %s, %s, %s", p.Name, providers.SettingURL,
					providers.PlaceholderUser, providers.PlaceholderEmail, providers.PlaceholderID))
			}
			if size, _ := p.Config[providers.SettingSizeParameter].(string); size != "" && !strings.Contains(size, providers.PlaceholderSize) {
				warnings = append(warnings, fmt.Sprintf("provider %q: %s does not contain %s", p.Name, providers.SettingSizeParameter, providers.PlaceholderSize))
			}
		case providers.TypeLegacy:
			if !strings.Contains(u, providers.LegacyMarker) {
				warnings = append(warnings, fmt.Sprintf("provider %q: %s does not contain %s", p.Name, providers.SettingURL, providers.LegacyMarker))
			}
		}
	}
	return warnings
}

func hasPlaceholder(template string) bool {
	for _, token := range []string{providers.PlaceholderUser, providers.PlaceholderEmail, providers.PlaceholderID} {
		if strings.Contains(template, token) {
			return true
		}
	}
	return false
}
