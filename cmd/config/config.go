package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageS3    = "s3"
	StorageMinio = "minio"
)

type Config struct {
	Port        string
	GinMode     string
	SecretKey   string
	DatabaseURL string

	JWTSecret  string
	JWTExpires time.Duration

	CORSOrigins    []string
	MaxUploadBytes int64

	StorageDriver      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Bucket           string
	S3Endpoint         string
	MinioEndpoint      string
	MinioUseSSL        bool

	LogLevel  string
	LogFormat string
}

// key -> environment variable
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.gin_mode":         "GIN_MODE",
	"server.secret_key":       "SECRET_KEY",
	"server.cors_origins":     "CORS_ORIGINS",
	"server.max_upload_bytes": "MAX_UPLOAD_BYTES",
	"database.url":            "DATABASE_URL",
	"jwt.secret":              "JWT_SECRET_KEY",
	"jwt.expires":             "JWT_EXPIRES",
	"storage.driver":          "STORAGE_DRIVER",
	"aws.access_key_id":       "AWS_ACCESS_KEY_ID",
	"aws.secret_access_key":   "AWS_SECRET_ACCESS_KEY",
	"aws.region":              "AWS_REGION",
	"aws.s3_bucket":           "S3_BUCKET_NAME",
	"aws.endpoint":            "S3_ENDPOINT",
	"minio.endpoint":          "MINIO_ENDPOINT",
	"minio.use_ssl":           "MINIO_USE_SSL",
	"log.level":               "LOG_LEVEL",
	"log.format":              "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.secret_key", "dev-secret-key")
	v.SetDefault("server.cors_origins", "http://localhost:5173")
	v.SetDefault("server.max_upload_bytes", int64(500*1024*1024))
	v.SetDefault("database.url", "sqlite3://video_platform.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires", time.Hour)
	v.SetDefault("storage.driver", StorageS3)
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.s3_bucket", "video-platform-bucket")
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads .env (if present), then config.yaml from the first of
// configPaths that has one, then the environment. Later sources win.
func Load(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if len(configPaths) > 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range configPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:               v.GetString("server.port"),
		GinMode:            v.GetString("server.gin_mode"),
		SecretKey:          v.GetString("server.secret_key"),
		DatabaseURL:        v.GetString("database.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTExpires:         v.GetDuration("jwt.expires"),
		CORSOrigins:        splitList(v.GetString("server.cors_origins")),
		MaxUploadBytes:     v.GetInt64("server.max_upload_bytes"),
		StorageDriver:      strings.ToLower(v.GetString("storage.driver")),
		AWSAccessKeyID:     v.GetString("aws.access_key_id"),
		AWSSecretAccessKey: v.GetString("aws.secret_access_key"),
		AWSRegion:          v.GetString("aws.region"),
		S3Bucket:           v.GetString("aws.s3_bucket"),
		S3Endpoint:         v.GetString("aws.endpoint"),
		MinioEndpoint:      v.GetString("minio.endpoint"),
		MinioUseSSL:        v.GetBool("minio.use_ssl"),
		LogLevel:           v.GetString("log.level"),
		LogFormat:          v.GetString("log.format"),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.SecretKey
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageS3, StorageMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.JWTExpires <= 0 {
		return fmt.Errorf("jwt expiry must be positive, got %s", c.JWTExpires)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
