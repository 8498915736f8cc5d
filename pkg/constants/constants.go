// Package constants provides shared constants for the coverage-calculator application.
package constants

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the month length used to derive daily rates
	DaysPerMonth = 30

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// DefaultLocale is the locale used for number grouping when none is configured
	DefaultLocale = "cs"

	// CurrencySymbol is appended to every formatted amount
	CurrencySymbol = "Kč"

	// DailySuffix marks per-day amounts
	DailySuffix = "/den"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxHouseholdUploadBytes is the default limit for uploaded household configs (256 KB)
	DefaultMaxHouseholdUploadBytes int64 = 256 * 1024
)
