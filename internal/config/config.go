package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
)

const (
	ImageStoreLocal      = "local"
	ImageStoreCloudinary = "cloudinary"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration for the service
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Database   DatabaseConfig
	RedisURL   string
	Events     EventsConfig
	ImageStore ImageStoreConfig

	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type EventsConfig struct {
	KafkaBrokers []string
	Topic        string
}

type ImageStoreConfig struct {
	Backend          string
	UploadDir        string
	MaxUploadSize    string
	CleanupOnFailure bool

	CloudinaryURL    string
	UploadPreset     string
	CloudinaryFolder string

	maxUploadBytes int64
}

// MaxUploadBytes returns the parsed MaxUploadSize
func (c ImageStoreConfig) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// LoadConfig reads .env.local and .env (when present) and then the process environment
func LoadConfig() (*Config, error) {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "school_portal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL: getEnv("REDIS_URL", ""),
		Events: EventsConfig{
			KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:        getEnv("EVENTS_TOPIC", "schools"),
		},
		ImageStore: ImageStoreConfig{
			Backend:          strings.ToLower(getEnv("IMAGE_STORE", ImageStoreLocal)),
			UploadDir:        getEnv("UPLOAD_DIR", "public/schoolImages"),
			MaxUploadSize:    getEnv("MAX_UPLOAD_SIZE", "10MB"),
			CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
			UploadPreset:     getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
			CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", ""),
		},
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	defaultPort := "3306"
	if cfg.Database.Driver == DriverPostgres {
		defaultPort = "5432"
	}
	cfg.Database.Port = getEnv("DB_PORT", defaultPort)

	var err error
	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxLifetime, err = time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "0s")); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.ImageStore.CleanupOnFailure, err = strconv.ParseBool(getEnv("IMAGE_CLEANUP_ON_FAILURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid IMAGE_CLEANUP_ON_FAILURE: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}

	size, err := units.FromHumanSize(c.ImageStore.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	c.ImageStore.maxUploadBytes = size

	switch c.ImageStore.Backend {
	case ImageStoreLocal:
		if c.ImageStore.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local image store")
		}
	case ImageStoreCloudinary:
		if c.ImageStore.CloudinaryURL == "" {
			return fmt.Errorf("CLOUDINARY_URL is required for the cloudinary image store")
		}
		if c.ImageStore.UploadPreset == "" {
			return fmt.Errorf("CLOUDINARY_UPLOAD_PRESET is required for the cloudinary image store")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore.Backend)
	}

	return nil
}

// DSN builds the driver-specific connection string. An empty database name
// connects to the server without selecting a database.
func (d DatabaseConfig) DSN(withDatabase bool) string {
	name := d.Name
	if !withDatabase {
		name = ""
	}

	if d.Driver == DriverPostgres {
		if name == "" {
			name = "postgres"
		}
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			d.Host, d.User, d.Password, name, d.Port, d.SSLMode,
		)
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, name,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
	}
	return level, nil
}
