// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the config command and the options phrase, where
// settings are addressed by dotted keys (e.g., "tray.enabled").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero/false". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Configuration keys.
const (
	KeyExtensionsDir = "extensions.dir"
	KeyMaxRows       = "display.max_rows"
	KeyShortcut      = "shortcut.key"
	KeyTray          = "tray.enabled"
	KeyAutoLaunch    = "launch.auto"
	KeyTheme         = "theme.name"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		KeyExtensionsDir,
		KeyMaxRows,
		KeyShortcut,
		KeyTray,
		KeyAutoLaunch,
		KeyTheme,
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyExtensionsDir:
		return c.ExtensionsDir(), nil
	case KeyMaxRows:
		return strconv.Itoa(c.MaxRows()), nil
	case KeyShortcut:
		return c.ShortcutKey(), nil
	case KeyTray:
		return strconv.FormatBool(c.TrayEnabled()), nil
	case KeyAutoLaunch:
		return strconv.FormatBool(c.AutoLaunch()), nil
	case KeyTheme:
		return c.Theme.Name, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyExtensionsDir:
		c.Extensions.Dir = value
	case KeyMaxRows:
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxRows || n > MaxMaxRows {
			return fmt.Errorf("%w: %s must be an integer between %d and %d", ErrInvalidValue, key, MinMaxRows, MaxMaxRows)
		}
		c.Display.MaxRows = &n
	case KeyShortcut:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
		}
		c.Shortcut.Key = value
	case KeyTray:
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Tray.Enabled = &b
	case KeyAutoLaunch:
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Launch.Auto = &b
	case KeyTheme:
		c.Theme.Name = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Toggle flips a boolean key and returns the new value.
func (c *Config) Toggle(key string) (bool, error) {
	cur, err := c.Get(key)
	if err != nil {
		return false, err
	}
	b, err := parseBool(key, cur)
	if err != nil {
		return false, err
	}
	return !b, c.Set(key, strconv.FormatBool(!b))
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
	}
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	m := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		m[k] = v
	}
	return m
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case KeyExtensionsDir:
		return c.Extensions.Dir != ""
	case KeyMaxRows:
		return c.Display.MaxRows != nil
	case KeyShortcut:
		return c.Shortcut.Key != ""
	case KeyTray:
		return c.Tray.Enabled != nil
	case KeyAutoLaunch:
		return c.Launch.Auto != nil
	case KeyTheme:
		return c.Theme.Name != ""
	default:
		return false
	}
}
