package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	SwaggerHost     string        `envconfig:"SWAGGER_HOST"`

	DBDriver          string        `envconfig:"DB_DRIVER" default:"mysql"`
	DatabaseDSN       string        `envconfig:"DATABASE_DSN" default:"user:password@tcp(localhost:3306)/socialhub?charset=utf8mb4&parseTime=True&loc=UTC"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	ResetDB           bool          `envconfig:"RESET_DB" default:"false"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"change-me"`

	ImageUploadURL     string        `envconfig:"IMAGE_UPLOAD_URL"`
	ImageUploadToken   string        `envconfig:"IMAGE_UPLOAD_TOKEN"`
	ImageUploadFolder  string        `envconfig:"IMAGE_UPLOAD_FOLDER" default:"posts"`
	ImageUploadTimeout time.Duration `envconfig:"IMAGE_UPLOAD_TIMEOUT" default:"30s"`
}

// Load reads an optional .env file and then builds Config from the
// environment, applying defaults for anything unset.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}
