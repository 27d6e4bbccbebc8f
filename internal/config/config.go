// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/pkg/constants"
	"github.com/iwvelando/max-defense/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override configuration
// keys, e.g. MAXDEFENSE_BUDGET.
const EnvPrefix = "MAXDEFENSE"

// Configuration holds all configuration for max-defense.
type Configuration struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Budget  int           `yaml:"budget" mapstructure:"budget"`
	Solver  string        `yaml:"solver,omitempty" mapstructure:"solver"`
	Filter  FilterConfig  `yaml:"filter,omitempty" mapstructure:"filter"`
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// CatalogConfig locates the armor catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FilterConfig bounds the candidate items handed to the solvers. Items are
// kept when MinDefense < defense <= MaxDefense, up to Limit of them. Unset
// fields take defaults; an explicit limit of 0 keeps nothing.
type FilterConfig struct {
	Enabled    bool     `yaml:"enabled" mapstructure:"enabled"`
	MinDefense *float64 `yaml:"minDefense,omitempty" mapstructure:"minDefense"`
	MaxDefense *float64 `yaml:"maxDefense,omitempty" mapstructure:"maxDefense"`
	Limit      *int     `yaml:"limit,omitempty" mapstructure:"limit"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format     string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	PrintTable bool   `yaml:"printTable,omitempty" mapstructure:"printTable"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("budget", constants.DefaultBudget)
	v.SetDefault("solver", constants.SolverBoth)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.Normalize()
	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Normalize applies defaults and canonical values.
func (c *Configuration) Normalize() {
	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)

	c.Solver = strings.ToLower(strings.TrimSpace(c.Solver))
	if c.Solver == "" {
		c.Solver = constants.SolverBoth
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}

	c.Filter.Normalize()
}

// Normalize fills unset filter bounds and limit with defaults.
func (f *FilterConfig) Normalize() {
	if f.MinDefense == nil {
		lo := constants.DefaultFilterMinDefense
		f.MinDefense = &lo
	}
	if f.MaxDefense == nil {
		hi := constants.DefaultFilterMaxDefense
		f.MaxDefense = &hi
	}
	if f.Limit == nil {
		limit := constants.DefaultFilterLimit
		f.Limit = &limit
	}
}

// Bounds returns the normalized filter range and limit.
func (f FilterConfig) Bounds() (float64, float64, int) {
	f.Normalize()
	return *f.MinDefense, *f.MaxDefense, *f.Limit
}

// Validate returns an error when the configuration cannot be run.
func (c *Configuration) Validate() error {
	if c.Budget < 0 {
		return fmt.Errorf("budget must be non-negative, got %d", c.Budget)
	}
	if err := validation.ValidateSolver(c.Solver); err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	return c.Filter.Validate()
}

// Validate checks the filter range and limit.
func (f FilterConfig) Validate() error {
	lo, hi, limit := f.Bounds()
	if lo >= hi {
		return fmt.Errorf("filter minimum defense %g must be less than maximum %g", lo, hi)
	}
	if limit < 0 {
		return fmt.Errorf("filter limit must be non-negative, got %d", limit)
	}
	return nil
}

// ValidateConfiguration returns warnings for settings that are legal but
// likely to misbehave.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	exhaustive := c.Solver == constants.SolverExhaustive || c.Solver == constants.SolverBoth
	if exhaustive && !c.Filter.Enabled {
		warnings = append(warnings, "exhaustive search without a filter enumerates every subset of the catalog")
	}
	if _, _, limit := c.Filter.Bounds(); exhaustive && c.Filter.Enabled && limit > armor.MaxExhaustiveItems {
		warnings = append(warnings, fmt.Sprintf("filter limit %d exceeds the exhaustive search maximum of %d items",
			limit, armor.MaxExhaustiveItems))
	}
	if c.Budget == 0 {
		warnings = append(warnings, "budget is zero; no armor can be purchased")
	}
	if c.Catalog.Path == "" {
		warnings = append(warnings, "no catalog path configured")
	}

	return warnings
}
