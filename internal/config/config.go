package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "rooming-data/internal/common/config"

	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverHTTP     = "http"
	DriverS3       = "s3"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config rooming-data service configuration.
// Precedence: defaults, then the YAML file, then environment variables.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Source   SourceConfig             `yaml:"source"`
	Database commoncfg.DatabaseConfig `yaml:"database"`
	Redis    RedisConfig              `yaml:"redis"`
	MQTT     MQTTConfig               `yaml:"mqtt"`
	Watch    struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"watch"`
	ReloadDebounce time.Duration `yaml:"reload_debounce"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

// SourceConfig selects where the rooming list document comes from.
type SourceConfig struct {
	Driver     string             `yaml:"driver"`
	Path       string             `yaml:"path"`
	URL        string             `yaml:"url"`
	Timeout    time.Duration      `yaml:"timeout"`
	RetryCount int                `yaml:"retry_count"`
	SQLitePath string             `yaml:"sqlite_path"`
	S3         commoncfg.S3Config `yaml:"s3"`
}

// RedisConfig snapshot cache and reload event stream. Disabled by default.
type RedisConfig struct {
	Enabled               bool `yaml:"enabled"`
	commoncfg.RedisConfig `yaml:",inline"`
	CacheTTL              time.Duration `yaml:"cache_ttl"`
	ReloadStream          string        `yaml:"reload_stream"`
}

// MQTTConfig reload trigger subscription. Disabled by default.
type MQTTConfig struct {
	Enabled              bool `yaml:"enabled"`
	commoncfg.MQTTConfig `yaml:",inline"`
	ReloadTopic          string `yaml:"reload_topic"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	cfg.Source.Driver = DriverFile
	cfg.Source.Path = "data/rfp-data.json"
	cfg.Source.Timeout = 10 * time.Second
	cfg.Source.RetryCount = 0
	cfg.Source.SQLitePath = "rooming-data.db"
	cfg.Source.S3.Region = "us-east-1"

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "rooming"
	cfg.Database.SSLMode = "disable"

	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.CacheTTL = 5 * time.Minute
	cfg.Redis.ReloadStream = "rooming-data:events"

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "rooming-data"
	cfg.MQTT.ReloadTopic = "rooming-data/reload"

	cfg.Watch.Enabled = true
	cfg.ReloadDebounce = 500 * time.Millisecond
	cfg.SearchDebounce = 300 * time.Millisecond
	return cfg
}

// Load reads the file named by CONFIG_FILE, if any.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom reads path (skipped when empty) and applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Source.Driver = strings.ToLower(getEnv("SOURCE_DRIVER", cfg.Source.Driver))
	cfg.Source.Path = getEnv("SOURCE_PATH", cfg.Source.Path)
	cfg.Source.URL = getEnv("SOURCE_URL", cfg.Source.URL)
	cfg.Source.Timeout = getDuration("SOURCE_TIMEOUT", cfg.Source.Timeout)
	cfg.Source.RetryCount = parseInt(getEnv("SOURCE_RETRY_COUNT", ""), cfg.Source.RetryCount)
	cfg.Source.SQLitePath = getEnv("SQLITE_PATH", cfg.Source.SQLitePath)
	cfg.Source.S3.LoadFromEnv("S3")

	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Enabled = getBool("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.RedisConfig.LoadFromEnv("REDIS")
	cfg.Redis.CacheTTL = getDuration("CACHE_TTL", cfg.Redis.CacheTTL)
	cfg.Redis.ReloadStream = getEnv("RELOAD_STREAM", cfg.Redis.ReloadStream)

	cfg.MQTT.Enabled = getBool("MQTT_ENABLED", cfg.MQTT.Enabled)
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.ReloadTopic = getEnv("MQTT_RELOAD_TOPIC", cfg.MQTT.ReloadTopic)

	cfg.Watch.Enabled = getBool("WATCH_ENABLED", cfg.Watch.Enabled)
	cfg.ReloadDebounce = getDuration("RELOAD_DEBOUNCE", cfg.ReloadDebounce)
	cfg.SearchDebounce = getDuration("SEARCH_DEBOUNCE", cfg.SearchDebounce)
}

// Validate checks that the selected source driver has what it needs.
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case DriverFile:
		if c.Source.Path == "" {
			return fmt.Errorf("SOURCE_PATH is required for the file driver")
		}
	case DriverHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("SOURCE_URL is required for the http driver")
		}
	case DriverS3:
		if c.Source.S3.Bucket == "" || c.Source.S3.Key == "" {
			return fmt.Errorf("S3_BUCKET and S3_KEY are required for the s3 driver")
		}
	case DriverPostgres:
	case DriverSQLite:
		if c.Source.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown SOURCE_DRIVER %q (want file, http, s3, postgres or sqlite)", c.Source.Driver)
	}
	if c.Source.RetryCount < 0 {
		return fmt.Errorf("SOURCE_RETRY_COUNT must not be negative")
	}
	if c.ReloadDebounce < 0 || c.SearchDebounce < 0 {
		return fmt.Errorf("debounce delays must not be negative")
	}
	if c.MQTT.Enabled && c.MQTT.ReloadTopic == "" {
		return fmt.Errorf("MQTT_RELOAD_TOPIC is required when MQTT is enabled")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
