// Package config loads the zone importer's run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	// DefaultPath is used when ZONE_IMPORT_CONFIG is not set.
	DefaultPath = "configs/zone-import.yaml"

	DefaultPrimaryNS  = "dns1.stabletransit.com"
	DefaultTimeout    = 60 * time.Second
	DefaultZoneSuffix = ".db"
)

// SOAConfig holds the fixed values written into every generated SOA record.
type SOAConfig struct {
	TTL     uint32 `yaml:"ttl"`
	Refresh uint32 `yaml:"refresh"`
	Retry   uint32 `yaml:"retry"`
	Expire  uint32 `yaml:"expire"`
	Minimum uint32 `yaml:"minimum"`
}

// Config holds every parameter of an import run. It is built once at
// startup and passed to the importer and the rewriter.
type Config struct {
	// BaseDir contains var/named, var/processed, cloudcred and the run logs.
	BaseDir      string        `yaml:"base_dir"`
	ContactEmail string        `yaml:"contact_email"`
	PrimaryNS    string        `yaml:"primary_ns"`
	Timeout      time.Duration `yaml:"timeout"`
	ZoneSuffix   string        `yaml:"zone_suffix"`
	SOA          SOAConfig     `yaml:"soa"`

	Provider string            `yaml:"provider"`
	Settings map[string]string `yaml:"settings"`
}

// Load reads the configuration from the path specified by the
// ZONE_IMPORT_CONFIG environment variable, defaulting to DefaultPath.
func Load() (*Config, error) {
	path := os.Getenv("ZONE_IMPORT_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from the given file path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	if c.PrimaryNS == "" {
		c.PrimaryNS = DefaultPrimaryNS
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ZoneSuffix == "" {
		c.ZoneSuffix = DefaultZoneSuffix
	}
	if c.SOA.TTL == 0 {
		c.SOA.TTL = 300
	}
	if c.SOA.Refresh == 0 {
		c.SOA.Refresh = 21600
	}
	if c.SOA.Retry == 0 {
		c.SOA.Retry = 3600
	}
	if c.SOA.Expire == 0 {
		c.SOA.Expire = 1814400
	}
	if c.SOA.Minimum == 0 {
		c.SOA.Minimum = 300
	}
	c.expandSettings()
}

// InputDir is where zone files wait to be imported.
func (c *Config) InputDir() string {
	return filepath.Join(c.BaseDir, "var", "named")
}

// ProcessedDir receives zone files after a successful import.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.BaseDir, "var", "processed")
}

// CredentialFile is the provider credential file.
func (c *Config) CredentialFile() string {
	return filepath.Join(c.BaseDir, "cloudcred")
}
