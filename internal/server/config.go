// Package server exposes the coverage calculator over HTTP.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/coverage-calculator/internal/config"
	"github.com/iwvelando/coverage-calculator/pkg/constants"
	"github.com/iwvelando/coverage-calculator/pkg/format"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the coverage API.
type Config struct {
	Address string `yaml:"address"`
	// MaxHouseholdUpload caps the household YAML accepted by /api/household
	// and the JSON bodies of the other endpoints, e.g. "256K".
	MaxHouseholdUpload string `yaml:"maxHouseholdUpload"`
	// Locale formats amounts in responses whose request names no locale.
	Locale  string               `yaml:"locale"`
	Logging config.LoggingConfig `yaml:"logging"`

	householdUploadLimit int64
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Address:              constants.DefaultServerAddress,
		MaxHouseholdUpload:   strconv.FormatInt(constants.DefaultMaxHouseholdUploadBytes, 10),
		Locale:               constants.DefaultLocale,
		householdUploadLimit: constants.DefaultMaxHouseholdUploadBytes,
	}
}

// LoadConfig loads the server configuration from YAML. A missing file yields
// the defaults without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HouseholdUploadLimit returns the upload limit in bytes.
func (c *Config) HouseholdUploadLimit() int64 {
	if c.householdUploadLimit <= 0 {
		return constants.DefaultMaxHouseholdUploadBytes
	}
	return c.householdUploadLimit
}

// SetHouseholdUploadLimit overrides the upload limit. Non-positive sizes are ignored.
func (c *Config) SetHouseholdUploadLimit(size int64) {
	if size > 0 {
		c.householdUploadLimit = size
		c.MaxHouseholdUpload = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	c.Locale = strings.TrimSpace(c.Locale)
	if c.Locale == "" {
		c.Locale = constants.DefaultLocale
	}
	if _, err := format.NewFormatter(c.Locale); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	size, err := ParseSize(c.MaxHouseholdUpload)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxHouseholdUploadBytes
	}
	c.householdUploadLimit = size
	c.MaxHouseholdUpload = strconv.FormatInt(size, 10)
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into
// bytes. An empty string yields the default upload size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxHouseholdUploadBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
