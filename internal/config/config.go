// Package config defines the data structures related to configuration and
// includes functions for loading and checking a household configuration.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/coverage-calculator/internal/coverage"
	"github.com/iwvelando/coverage-calculator/internal/sheet"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for coverage-calculator.
type Configuration struct {
	Persons []Person      `yaml:"persons" validate:"required,min=1,unique=Name,dive"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `yaml:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv json"`
	Locale string `yaml:"locale,omitempty" validate:"omitempty,locale"` // number grouping, e.g. cs or en
}

// Person is the income profile of one insured person. PensionLevels may be
// omitted, in which case they are estimated from Income.
type Person struct {
	Name          string    `yaml:"name" validate:"required"`
	Income        float64   `yaml:"income"`
	OtherIncome   float64   `yaml:"otherIncome"`
	OSVC          bool      `yaml:"osvc"`
	Expenses      float64   `yaml:"expenses"`
	PassiveIncome float64   `yaml:"passiveIncome"`
	PensionLevels []float64 `yaml:"pensionLevels,omitempty" validate:"omitempty,len=3,dive,gte=0"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Profile returns the sheet profile for the person.
func (p Person) Profile() sheet.Profile {
	return sheet.Profile{
		Name:          p.Name,
		Income:        p.Income,
		OtherIncome:   p.OtherIncome,
		OSVC:          p.OSVC,
		Expenses:      p.Expenses,
		PassiveIncome: p.PassiveIncome,
	}
}

// Sheet creates the person's sheet, using the configured pension levels when
// present and income-based defaults otherwise.
func (p Person) Sheet() (*sheet.Sheet, error) {
	switch len(p.PensionLevels) {
	case 0:
		return sheet.New(p.Profile()), nil
	case coverage.LevelCount:
		var levels coverage.PensionLevels
		copy(levels[:], p.PensionLevels)
		return sheet.NewWithPensionLevels(p.Profile(), levels), nil
	default:
		return nil, fmt.Errorf("person %q: expected %d pension levels, got %d",
			p.Name, coverage.LevelCount, len(p.PensionLevels))
	}
}
