// config_keys.go provides key-value access to configuration settings.
//
// The CLI and MCP server address configuration by dotted string keys
// (e.g., "run.max_output"). Pointers in Config distinguish "not set" from
// "explicitly set to zero/false", so defaults apply only to unset keys.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jpl-au/stopwatch/measure"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"run.capture", "run.record", "run.max_output",
		"history.limit",
		"display.colour", "display.slow",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	if !IsValidKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.All()[key], nil
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "run.capture":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Run.Capture = &b
	case "run.record":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Run.Record = &b
	case "run.max_output":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < MinMaxOutput || n > MaxMaxOutput {
			return fmt.Errorf("%w: run.max_output must be between %d and %d", ErrInvalidValue, MinMaxOutput, MaxMaxOutput)
		}
		c.Run.MaxOutput = &n
	case "history.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinHistoryLimit || n > MaxHistoryLimit {
			return fmt.Errorf("%w: history.limit must be between %d and %d", ErrInvalidValue, MinHistoryLimit, MaxHistoryLimit)
		}
		c.History.Limit = &n
	case "display.colour":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Display.Colour = &b
	case "display.slow":
		if value == "" {
			c.Display.Slow = nil
			return nil
		}
		m, err := measure.Decode(value)
		if err != nil {
			return fmt.Errorf("%w: display.slow must be a duration like PT30S: %w", ErrInvalidValue, err)
		}
		c.Display.Slow = &m
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	v := strings.ToLower(value)
	if v != "true" && v != "false" {
		return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
	}
	return v == "true", nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	slow := ""
	if m, ok := c.Slow(); ok {
		slow = measure.Encode(m)
	}
	return map[string]string{
		"author.name":    c.Author.Name,
		"author.email":   c.Author.Email,
		"run.capture":    strconv.FormatBool(c.Capture()),
		"run.record":     strconv.FormatBool(c.Record()),
		"run.max_output": strconv.FormatInt(c.MaxOutput(), 10),
		"history.limit":  strconv.Itoa(c.HistoryLimit()),
		"display.colour": strconv.FormatBool(c.Colour()),
		"display.slow":   slow,
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "run.capture":
		return c.Run.Capture != nil
	case "run.record":
		return c.Run.Record != nil
	case "run.max_output":
		return c.Run.MaxOutput != nil
	case "history.limit":
		return c.History.Limit != nil
	case "display.colour":
		return c.Display.Colour != nil
	case "display.slow":
		return c.Display.Slow != nil
	default:
		return false
	}
}
