package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config chứa toàn bộ application configuration.
// Thứ tự ưu tiên: environment variables > file YAML (--config) > default.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	CORS     CORSConfig     `yaml:"cors"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"env"` // development, staging, production
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"log_level"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // mongo | postgres
}

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	MaxPoolSize    int           `yaml:"max_pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
}

type DatabaseConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	User              string        `yaml:"user"`
	Password          string        `yaml:"password"`
	Name              string        `yaml:"name"`
	SSLMode           string        `yaml:"sslmode"`
	MaxConns          int           `yaml:"max_conns"`
	MinConns          int           `yaml:"min_conns"`
	MaxConnLifetime   time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type CatalogConfig struct {
	// ProductSlugMode: "strict" (mặc định, cùng rule với category) hoặc "simple"
	ProductSlugMode string `yaml:"product_slug_mode"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default trả về config mặc định cho local development
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Catalog API",
			Environment: "development",
			Port:        "8080",
			LogLevel:    "info",
		},
		Storage: StorageConfig{Driver: DriverMongo},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "catalog",
			MaxPoolSize:    50,
			ConnectTimeout: 10 * time.Second,
			MaxRetries:     5,
			RetryDelay:     time.Second,
		},
		Database: DatabaseConfig{
			Host:              "localhost",
			Port:              5432,
			User:              "postgres",
			Password:          "",
			Name:              "catalog",
			SSLMode:           "disable",
			MaxConns:          25,
			MinConns:          5,
			MaxConnLifetime:   5 * time.Minute,
			MaxConnIdleTime:   time.Minute,
			HealthCheckPeriod: time.Minute,
			MaxRetries:        5,
			RetryDelay:        time.Second,
			ConnectTimeout:    10 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  true,
			Host:     "localhost:6379",
			DB:       0,
			CacheTTL: 5 * time.Minute,
		},
		Catalog: CatalogConfig{ProductSlugMode: string(utils.SlugStrict)},
		CORS:    CORSConfig{AllowOrigins: []string{"*"}},
	}
}

// Load: default → file YAML (nếu path != "") → env
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)

	c.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", c.Storage.Driver))

	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DATABASE", c.Mongo.Database)
	c.Mongo.MaxPoolSize = getEnvInt("MONGO_MAX_POOL_SIZE", c.Mongo.MaxPoolSize)
	c.Mongo.MaxRetries = getEnvInt("MONGO_MAX_RETRIES", c.Mongo.MaxRetries)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxConns = getEnvInt("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvInt("DB_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxRetries = getEnvInt("DB_MAX_RETRIES", c.Database.MaxRetries)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)

	c.Catalog.ProductSlugMode = getEnv("PRODUCT_SLUG_MODE", c.Catalog.ProductSlugMode)

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.CORS.AllowOrigins = strings.Split(origins, ",")
	}

	// Durations: giá trị sai format là lỗi, không âm thầm dùng default
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"MONGO_CONNECT_TIMEOUT", &c.Mongo.ConnectTimeout},
		{"MONGO_RETRY_DELAY", &c.Mongo.RetryDelay},
		{"DB_MAX_CONN_LIFETIME", &c.Database.MaxConnLifetime},
		{"DB_MAX_CONN_IDLE_TIME", &c.Database.MaxConnIdleTime},
		{"DB_HEALTH_CHECK_PERIOD", &c.Database.HealthCheckPeriod},
		{"DB_RETRY_DELAY", &c.Database.RetryDelay},
		{"DB_CONNECT_TIMEOUT", &c.Database.ConnectTimeout},
		{"CACHE_TTL", &c.Redis.CacheTTL},
	}
	for _, d := range durations {
		v, err := getEnvDuration(d.key, *d.target)
		if err != nil {
			return err
		}
		*d.target = v
	}

	return nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("APP_PORT must be set")
	}

	switch c.Storage.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE must be set for driver %q", DriverMongo)
		}
	case DriverPostgres:
		if c.App.Environment == "production" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %q or %q)", c.Storage.Driver, DriverMongo, DriverPostgres)
	}

	mode, err := utils.ParseSlugMode(c.Catalog.ProductSlugMode)
	if err != nil {
		return fmt.Errorf("invalid PRODUCT_SLUG_MODE: %w", err)
	}
	if mode == utils.SlugSimple {
		logger.Warn("product slugs use the simple rule, which drops accented characters instead of folding them like category slugs", map[string]interface{}{
			"product_slug_mode": mode,
		})
	}

	if c.Redis.Enabled && c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when redis is enabled")
	}

	return nil
}

// ProductSlugMode trả về mode đã parse (Validate đảm bảo không lỗi)
func (c *Config) ProductSlugMode() utils.SlugMode {
	mode, err := utils.ParseSlugMode(c.Catalog.ProductSlugMode)
	if err != nil {
		return utils.SlugStrict
	}
	return mode
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
