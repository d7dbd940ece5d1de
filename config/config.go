package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"keystack/adapter"
	"keystack/api"
	"keystack/logger"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "KEYSTACK"

// Config represents the complete CLI configuration
type Config struct {
	API     APIConfig     `yaml:"api" envconfig:"API"`
	Storage StorageConfig `yaml:"storage" envconfig:"STORAGE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// APIConfig contains license server connection settings
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.keystack.app"`
	APIKey    string        `yaml:"api_key" envconfig:"API_KEY"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// StorageConfig selects where the activation token is kept
type StorageConfig struct {
	Driver        string        `yaml:"driver" envconfig:"DRIVER" default:"file"`
	Path          string        `yaml:"path" envconfig:"FILE_PATH"`
	Passphrase    string        `yaml:"passphrase" envconfig:"PASSPHRASE"`
	DSN           string        `yaml:"dsn" envconfig:"DSN"`
	Name          string        `yaml:"name" envconfig:"NAME"`
	RedisAddr     string        `yaml:"redis_addr" envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" envconfig:"REDIS_DB"`
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" default:"off"`
	Color bool   `yaml:"color" envconfig:"COLOR"`
}

// Override adjusts a loaded configuration before it is validated, e.g. from
// command-line flags.
type Override func(*Config)

// Load reads the environment, then overlays the YAML file at path when it
// exists. Variables that are set in the environment win over the file, and
// overrides win over both. An empty path skips the file.
func Load(path string, overrides ...Override) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		fileConfig, err := loadFromFile(path)
		switch {
		case err == nil:
			mergeConfigs(&cfg, fileConfig)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	for _, o := range overrides {
		o(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs copies every non-zero file value whose variable is unset.
func mergeConfigs(dst, file *Config) {
	mergeString(&dst.API.BaseURL, file.API.BaseURL, "API_BASE_URL")
	mergeString(&dst.API.APIKey, file.API.APIKey, "API_API_KEY")
	mergeDuration(&dst.API.Timeout, file.API.Timeout, "API_TIMEOUT")
	mergeString(&dst.API.UserAgent, file.API.UserAgent, "API_USER_AGENT")

	mergeString(&dst.Storage.Driver, file.Storage.Driver, "STORAGE_DRIVER")
	mergeString(&dst.Storage.Path, file.Storage.Path, "STORAGE_FILE_PATH")
	mergeString(&dst.Storage.Passphrase, file.Storage.Passphrase, "STORAGE_PASSPHRASE")
	mergeString(&dst.Storage.DSN, file.Storage.DSN, "STORAGE_DSN")
	mergeString(&dst.Storage.Name, file.Storage.Name, "STORAGE_NAME")
	mergeString(&dst.Storage.RedisAddr, file.Storage.RedisAddr, "STORAGE_REDIS_ADDR")
	mergeString(&dst.Storage.RedisPassword, file.Storage.RedisPassword, "STORAGE_REDIS_PASSWORD")
	if file.Storage.RedisDB != 0 && !envSet("STORAGE_REDIS_DB") {
		dst.Storage.RedisDB = file.Storage.RedisDB
	}
	mergeDuration(&dst.Storage.TTL, file.Storage.TTL, "STORAGE_TTL")

	mergeString(&dst.Logging.Level, file.Logging.Level, "LOGGING_LEVEL")
	if file.Logging.Color && !envSet("LOGGING_COLOR") {
		dst.Logging.Color = true
	}
}

func mergeString(dst *string, v, key string) {
	if v != "" && !envSet(key) {
		*dst = v
	}
}

func mergeDuration(dst *time.Duration, v time.Duration, key string) {
	if v != 0 && !envSet(key) {
		*dst = v
	}
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api base url must be set")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "", "none", adapter.DriverMemory, adapter.DriverFile, adapter.DriverSQLite, adapter.DriverRedis:
	case adapter.DriverMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("mysql token storage requires a dsn")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Path == "" && (c.Storage.Driver == adapter.DriverFile || c.Storage.Driver == adapter.DriverSQLite) {
		c.Storage.Path = DefaultTokenPath(c.Storage.Driver)
	}
	return nil
}

// DefaultTokenPath returns the per-user location of the token store.
func DefaultTokenPath(driver string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "token.json"
	if driver == adapter.DriverSQLite {
		name = "keystack.db"
	}
	return filepath.Join(dir, "keystack", name)
}

// AdapterConfig maps the storage section onto adapter.Config.
func (c *Config) AdapterConfig() adapter.Config {
	return adapter.Config{
		Driver:        c.Storage.Driver,
		Path:          c.Storage.Path,
		Passphrase:    c.Storage.Passphrase,
		DSN:           c.Storage.DSN,
		Name:          c.Storage.Name,
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
		TTL:           c.Storage.TTL,
	}
}

// TransportConfig maps the api section onto api.Config. The adapter is
// attached by the caller.
func (c *Config) TransportConfig() api.Config {
	return api.Config{
		APIKey:    c.API.APIKey,
		BaseURL:   c.API.BaseURL,
		Timeout:   c.API.Timeout,
		UserAgent: c.API.UserAgent,
	}
}

// LoggerConfig maps the logging section onto logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:    logger.ParseLevel(c.Logging.Level),
		Output:   os.Stderr,
		UseColor: c.Logging.Color,
	}
}
