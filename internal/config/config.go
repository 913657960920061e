// Package config resolves the nbaetl.yaml project file, the environment and
// defaults into the settings of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables that override the project file.
const (
	EnvDSN         = "NBAETL_DSN"
	EnvStore       = "NBAETL_STORE"
	EnvLoadMode    = "NBAETL_LOAD_MODE"
	EnvDatabaseURL = "DATABASE_URL"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultDSN   = "nba.db"
	DefaultInput = "./batch"
	DefaultMode  = "UPSERT"
	DefaultJob   = "nbaetl"

	DefaultConnectRetries = 3
)

type StoreConfig struct {
	Kind           string `yaml:"kind,omitempty"`
	DSN            string `yaml:"dsn,omitempty"`
	ConnectRetries int    `yaml:"connect_retries"`
}

type LoadConfig struct {
	Mode                      string `yaml:"mode"`
	MaxParametersPerStatement int    `yaml:"max_parameters_per_statement,omitempty"`
	RunValidation             bool   `yaml:"run_validation"`
	Input                     string `yaml:"input"`
}

type ValidationConfig struct {
	ExampleLimit  int  `yaml:"example_limit"`
	ExtendedRules bool `yaml:"extended_rules"`
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
	Job            string `yaml:"job"`
}

// ProjectConfig mirrors nbaetl.yaml.
type ProjectConfig struct {
	Store      StoreConfig      `yaml:"store"`
	Load       LoadConfig       `yaml:"load"`
	Validation ValidationConfig `yaml:"validation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Default returns the settings used when no file is present. The DSN is left
// empty so DATABASE_URL can still apply; Resolve fills in DefaultDSN last.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Store: StoreConfig{
			ConnectRetries: DefaultConnectRetries,
		},
		Load: LoadConfig{
			Mode:          DefaultMode,
			RunValidation: true,
			Input:         DefaultInput,
		},
		Validation: ValidationConfig{
			ExampleLimit: nbaetl.DefaultExampleLimit,
		},
		Metrics: MetricsConfig{
			Job: DefaultJob,
		},
	}
}

// Load reads nbaetl.yaml from dir on top of Default.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, nbaetl.ConfigFileName))
}

// LoadFile reads the config file at path on top of Default.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v: %w", path, err, nbaetl.ErrInvalidConfig)
	}
	return cfg, nil
}

// Resolve loads path, or nbaetl.yaml in the working directory when path is
// empty, then applies environment overrides. A missing default file is not an
// error; a missing explicit path is.
func Resolve(path string, getenv func(string) string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = nbaetl.ConfigFileName
	}

	cfg, err := LoadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, ErrConfigNotFound) && !explicit:
		cfg = Default()
	case errors.Is(err, ErrConfigNotFound):
		return nil, fmt.Errorf("config file %s: %w", path, err)
	default:
		return nil, err
	}

	cfg.ApplyEnv(getenv)
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = DefaultDSN
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the NBAETL_* variables. DATABASE_URL is
// only a fallback for a DSN that nothing else set.
func (c *ProjectConfig) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvStore); v != "" {
		c.Store.Kind = v
	}
	if v := getenv(EnvLoadMode); v != "" {
		c.Load.Mode = v
	}
	switch {
	case getenv(EnvDSN) != "":
		c.Store.DSN = getenv(EnvDSN)
	case c.Store.DSN == "" && getenv(EnvDatabaseURL) != "":
		c.Store.DSN = getenv(EnvDatabaseURL)
	}
}

// Validate checks the configuration and returns every problem found.
func (c *ProjectConfig) Validate() error {
	var errs []error

	switch strings.ToLower(c.Store.Kind) {
	case "", "sqlite", "postgres", "postgresql", "pg":
	default:
		errs = append(errs, fmt.Errorf("store.kind %q is not sqlite or postgres: %w", c.Store.Kind, nbaetl.ErrInvalidConfig))
	}

	if c.Store.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("store.connect_retries cannot be negative: %w", nbaetl.ErrInvalidConfig))
	}

	if _, err := c.LoadConfig(); err != nil {
		errs = append(errs, err)
	}

	if err := c.ValidationConfig().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LoadConfig converts the load section into the engine's configuration value.
func (c *ProjectConfig) LoadConfig() (nbaetl.LoadConfig, error) {
	mode, err := nbaetl.ParseLoadMode(c.Load.Mode)
	if err != nil {
		return nbaetl.LoadConfig{}, err
	}
	cfg := nbaetl.LoadConfig{
		Mode:                      mode,
		MaxParametersPerStatement: c.Load.MaxParametersPerStatement,
	}
	if err := cfg.Validate(); err != nil {
		return nbaetl.LoadConfig{}, err
	}
	return cfg, nil
}

// ValidationConfig converts the validation section into the engine's
// configuration value.
func (c *ProjectConfig) ValidationConfig() nbaetl.ValidationConfig {
	return nbaetl.ValidationConfig{
		ExampleLimit:    c.Validation.ExampleLimit,
		IncludeExtended: c.Validation.ExtendedRules,
	}
}

// Save writes the configuration to path as YAML.
func Save(path string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
