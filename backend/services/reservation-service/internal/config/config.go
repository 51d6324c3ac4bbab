package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "ecocharge/backend/libs/config"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

const defaultPort = "8084"

// Config defines reservation service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"RESERVATION_HTTP_PORT"`
	} `yaml:"http"`
	Catalog struct {
		Source   string `yaml:"source" env:"RESERVATION_CATALOG_SOURCE"`
		SeedFile string `yaml:"seedFile" env:"RESERVATION_SEED_FILE"`
	} `yaml:"catalog"`
	Database struct {
		DSN string `yaml:"dsn" env:"RESERVATION_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr      string `yaml:"addr" env:"RESERVATION_REDIS_ADDR"`
		Password  string `yaml:"password" env:"RESERVATION_REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"RESERVATION_REDIS_DB"`
		KeyPrefix string `yaml:"keyPrefix" env:"RESERVATION_REDIS_KEY_PREFIX"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"RESERVATION_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"RESERVATION_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	RateLimit struct {
		PerMinute  int  `yaml:"perMinute" env:"RESERVATION_RATE_LIMIT_PER_MINUTE"`
		Burst      int  `yaml:"burst" env:"RESERVATION_RATE_LIMIT_BURST"`
		TrustProxy bool `yaml:"trustProxy" env:"RESERVATION_RATE_LIMIT_TRUST_PROXY"`
	} `yaml:"rateLimit"`
	WS struct {
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"RESERVATION_WS_WRITE_TIMEOUT"`
	} `yaml:"ws"`
	Password struct {
		BcryptCost int `yaml:"bcryptCost" env:"RESERVATION_BCRYPT_COST"`
	} `yaml:"password"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Catalog.Source = SourceFile
	cfg.Catalog.SeedFile = "config/seed.yaml"
	cfg.Redis.KeyPrefix = "reservation:"
	cfg.JWT.ExpiresInMinutes = 60
	cfg.RateLimit.PerMinute = 60
	cfg.RateLimit.Burst = 10
	cfg.WS.WriteTimeoutSeconds = 10
	return cfg
}

// Validate checks required settings.
func (c *Config) Validate() error {
	c.Catalog.Source = strings.ToLower(strings.TrimSpace(c.Catalog.Source))
	switch c.Catalog.Source {
	case SourceFile:
		if strings.TrimSpace(c.Catalog.SeedFile) == "" {
			return errors.New("config: catalog seed file is required")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: database dsn required for postgres catalog")
		}
	default:
		return fmt.Errorf("config: unknown catalog source %q", c.Catalog.Source)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.JWT.ExpiresInMinutes <= 0 {
		c.JWT.ExpiresInMinutes = 60
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// SnapshotsEnabled reports whether user snapshots go to redis.
func (c *Config) SnapshotsEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// WSWriteTimeout returns the websocket write deadline.
func (c *Config) WSWriteTimeout() time.Duration {
	if c.WS.WriteTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WS.WriteTimeoutSeconds) * time.Second
}
