package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Storage   StorageConfig
	Pricing   PricingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
	// MaxUploadBytes caps multipart memory for image uploads.
	MaxUploadBytes int64
}

type DatabaseConfig struct {
	Driver   string // postgres, mysql or sqlite
	URL      string // full DSN, wins over the discrete fields
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	APIKey string
}

// RedisConfig is optional; an empty Addr selects the in-process rate limiter.
type RedisConfig struct {
	Addr     string
	PoolSize int
}

// RabbitMQConfig is optional; an empty URL disables event publishing to the broker.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type StorageConfig struct {
	Driver        string // local or s3
	LocalDir      string
	PublicBaseURL string
	S3            S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type PricingConfig struct {
	FreeShippingThreshold string
	FlatShippingFee       string
	TaxRate               string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)

	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("RABBITMQ_EXCHANGE", "storefront.events")

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("S3_REGION", "auto")

	v.SetDefault("FREE_SHIPPING_THRESHOLD", "50")
	v.SetDefault("FLAT_SHIPPING_FEE", "9.99")
	v.SetDefault("TAX_RATE", "0.08")

	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
}

// Load reads .env files (if any) and resolves every setting from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Env:            v.GetString("ENV"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Database: parseDatabaseConfig(v),
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Admin: AdminConfig{
			APIKey: v.GetString("ADMIN_API_KEY"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
			LocalDir:      v.GetString("UPLOAD_DIR"),
			PublicBaseURL: v.GetString("PUBLIC_BASE_URL"),
			S3: S3Config{
				Bucket:          v.GetString("S3_BUCKET"),
				Region:          v.GetString("S3_REGION"),
				Endpoint:        v.GetString("S3_ENDPOINT"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				PublicURL:       v.GetString("S3_PUBLIC_URL"),
			},
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: v.GetString("FREE_SHIPPING_THRESHOLD"),
			FlatShippingFee:       v.GetString("FLAT_SHIPPING_FEE"),
			TaxRate:               v.GetString("TAX_RATE"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production logging and gin release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func parseDatabaseConfig(v *viper.Viper) DatabaseConfig {
	cfg := DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}

	databaseURL := v.GetString("DATABASE_URL")
	if databaseURL == "" {
		return cfg
	}
	cfg.URL = databaseURL

	u, err := url.Parse(databaseURL)
	if err != nil || u.Scheme == "" {
		return cfg
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		cfg.Driver = "postgres"
	case "mysql":
		cfg.Driver = "mysql"
	case "sqlite", "file":
		cfg.Driver = "sqlite"
	}
	return cfg
}
