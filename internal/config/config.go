package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	Storage       string `mapstructure:"STORAGE"`
	CartFileDir   string `mapstructure:"CART_FILE_DIR"`
	DatabaseDSN   string `mapstructure:"DATABASE_DSN"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Empty RedisAddr disables the catalog cache.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	// Empty RabbitMQURL disables event publishing.
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	CORSAllowOrigins string        `mapstructure:"CORS_ALLOW_ORIGINS"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":               "3001",
	"ENVIRONMENT":        "development",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
	"STORAGE":            StorageMemory,
	"CART_FILE_DIR":      "./data",
	"DATABASE_DSN":       "",
	"RUN_MIGRATIONS":     true,
	"MONGO_URI":          "",
	"MONGO_DATABASE":     "ecommerce",
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"CACHE_TTL":          "5m",
	"RABBITMQ_URL":       "",
	"CORS_ALLOW_ORIGINS": "*",
	"REQUEST_TIMEOUT":    "5s",
	"SHUTDOWN_TIMEOUT":   "10s",
}

// Load reads defaults, then the optional config file, then the environment.
// Environment variables win over the file.
func Load(configFile string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.CartFileDir == "" {
			errs = append(errs, errors.New("CART_FILE_DIR is required when STORAGE=file"))
		}
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required when STORAGE=postgres"))
		}
	case StorageMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORAGE=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q (want memory, file, postgres or mongo)", c.Storage))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive when REDIS_ADDR is set"))
	}
	return errors.Join(errs...)
}

// AllowOrigins splits CORS_ALLOW_ORIGINS on commas. An empty list means "*".
func (c Config) AllowOrigins() []string {
	return splitCSV(c.CORSAllowOrigins)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
