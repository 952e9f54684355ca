package providers

import (
	"fmt"
	"strconv"
)

// Configuration keys understood by the built-in providers.
const (
	SettingURL           = "url"
	SettingChangeURL     = "changeUrl"
	SettingSizeParameter = "sizeParameter"
	SettingLowerCase     = "lowerCase"
)

func stringSetting(settings map[string]interface{}, key string) (string, error) {
	v, ok := settings[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return s, nil
}

func boolSetting(settings map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := settings[key]
	if !ok || v == nil {
		return def, nil
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return def, fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return b, nil
	default:
		return def, fmt.Errorf("%s must be a boolean, got %T", key, v)
	}
}
