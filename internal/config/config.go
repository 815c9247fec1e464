// config предоставляет структуру конфигурации valet-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища профилей.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Бэкенды хранилища фотографий.
const (
	PhotosMinIO  = "minio"
	PhotosS3     = "s3"
	PhotosMemory = "memory"
)

// Config — корневая конфигурация сервиса.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Redis     RedisConfig     `yaml:"redis"`
	Photos    PhotosConfig    `yaml:"photos"`
	S3        S3Config        `yaml:"s3"`
	Auth      AuthConfig      `yaml:"auth"`
	Birthdays BirthdaysConfig `yaml:"birthdays"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// GRPCConfig — сетевые настройки gRPC-сервера.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50053"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// HTTPConfig — REST API и служебные эндпоинты (/livez, /healthz, /metrics).
type HTTPConfig struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"50093"`
	BasePath       string        `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api/v1"`
	CORSOrigins    []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:"," env-default:"*"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"10s"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// StorageConfig — выбор хранилища профилей.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PostgresConfig struct {
	URL     string `yaml:"url" env:"POSTGRES_URL"`
	Migrate bool   `yaml:"migrate" env:"POSTGRES_MIGRATE"`
}

type MongoConfig struct {
	URL      string `yaml:"url" env:"MONGO_URL"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"valet"`
}

// RedisConfig — необязательный кэш чтения профилей; пустой URL отключает кэш.
type RedisConfig struct {
	URL    string        `yaml:"url" env:"REDIS_URL"`
	TTL    time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
	Prefix string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"valet"`
}

type PhotosConfig struct {
	Backend             string   `yaml:"backend" env:"PHOTOS_BACKEND" env-default:"minio"`
	Bucket              string   `yaml:"bucket" env:"PHOTOS_BUCKET" env-default:"profiles"`
	PublicBaseURL       string   `yaml:"public_base_url" env:"PHOTOS_PUBLIC_BASE_URL"`
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"PHOTOS_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"PHOTOS_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/gif,image/webp"`
}

// S3Config — доступ к объектному хранилищу (MinIO или AWS S3).
type S3Config struct {
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey    string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Region       string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	UsePathStyle bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
}

// AuthConfig — проверка bearer JWT, выданных внешним сервисом аутентификации.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"AUTH_ISSUER"`
	Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
}

// BirthdaysConfig — окно "ближайших" дней рождения и зона, определяющая "сегодня".
type BirthdaysConfig struct {
	WindowDays int    `yaml:"window_days" env:"BIRTHDAYS_WINDOW_DAYS" env-default:"30"`
	Timezone   string `yaml:"timezone" env:"BIRTHDAYS_TIMEZONE" env-default:"UTC"`
}

// Location возвращает зону из Timezone; пустая строка — UTC.
func (b BirthdaysConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(b.Timezone)
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ENV перекрывает значения из файла.
func Load(path string) (*Config, error) {
	var cfg Config

	read := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", p, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if path != "" {
		return read(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return read(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return read("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validPort(p string) bool {
	n, err := strconv.Atoi(p)
	return err == nil && n > 0 && n <= 65535
}

func (c *Config) validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("env must be one of local|dev|prod, got %q", c.Env)
	}

	if c.GRPC.Host == "" {
		return fmt.Errorf("grpc.host is required")
	}
	if !validPort(c.GRPC.Port) {
		return fmt.Errorf("grpc.port must be a valid TCP port (1..65535)")
	}
	if !validPort(c.HTTP.Port) {
		return fmt.Errorf("http.port must be a valid TCP port (1..65535)")
	}
	if c.HTTP.Port == c.GRPC.Port && c.HTTP.Host == c.GRPC.Host {
		return fmt.Errorf("http and grpc must listen on different addresses")
	}
	if c.HTTP.RequestTimeout < 0 {
		return fmt.Errorf("http.request_timeout must be >= 0")
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for storage.driver=postgres")
		}
	case DriverMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required for storage.driver=mongo")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required for storage.driver=mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of postgres|mongo|memory, got %q", c.Storage.Driver)
	}

	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 5 * time.Minute
	}

	switch c.Photos.Backend {
	case PhotosMinIO:
		if c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3.endpoint, s3.access_key and s3.secret_key are required for photos.backend=minio")
		}
	case PhotosS3:
		if c.S3.Region == "" {
			return fmt.Errorf("s3.region is required for photos.backend=s3")
		}
	case PhotosMemory:
	default:
		return fmt.Errorf("photos.backend must be one of minio|s3|memory, got %q", c.Photos.Backend)
	}

	if c.Photos.Bucket == "" {
		return fmt.Errorf("photos.bucket is required")
	}
	if c.Photos.MaxSizeBytes == 0 {
		c.Photos.MaxSizeBytes = 5 * 1024 * 1024 // 5 MiB
	}
	if c.Photos.MaxSizeBytes < 0 {
		return fmt.Errorf("photos.max_size_bytes must be >= 0")
	}
	if len(c.Photos.AllowedContentTypes) == 0 {
		return fmt.Errorf("photos.allowed_content_types must not be empty")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Birthdays.WindowDays <= 0 {
		c.Birthdays.WindowDays = 30
	}
	if c.Birthdays.WindowDays > 366 {
		return fmt.Errorf("birthdays.window_days must be <= 366")
	}
	if c.Birthdays.Timezone == "" {
		c.Birthdays.Timezone = "UTC"
	}
	if _, err := c.Birthdays.Location(); err != nil {
		return fmt.Errorf("birthdays.timezone: %w", err)
	}

	if c.Timeouts.Service < 0 {
		return fmt.Errorf("timeouts.service must be >= 0")
	}

	return nil
}
