package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
)

const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBLog       bool
	CORSOrigin  string
	LogLevel    string

	MediaBackend   string
	MediaDir       string
	MediaURLPrefix string
	MaxUploadBytes int64

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	RateLimitRPS   float64
	RateLimitBurst int

	SeedDemoUsers bool
	LiveFeed      bool
	// TelemetryStdout exports spans and the operation counter as JSON lines.
	TelemetryStdout bool
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CORSOrigin:     getenv("CORS_ORIGIN", "*"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		MediaBackend:   getenv("MEDIA_BACKEND", MediaBackendLocal),
		MediaDir:       getenv("MEDIA_DIR", "./static/medias"),
		MediaURLPrefix: getenv("MEDIA_URL_PREFIX", "/static/medias"),
		S3Bucket:       os.Getenv("AWS_BUCKET_NAME"),
		S3Region:       os.Getenv("AWS_REGION"),
		S3AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	var err error
	if cfg.DBLog, err = getBool("DB_LOG", false); err != nil {
		return nil, err
	}
	if cfg.SeedDemoUsers, err = getBool("SEED_DEMO_USERS", false); err != nil {
		return nil, err
	}
	if cfg.LiveFeed, err = getBool("LIVE_FEED", true); err != nil {
		return nil, err
	}
	if cfg.TelemetryStdout, err = getBool("TELEMETRY_STDOUT", false); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	burst, err := getInt64("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MediaBackend {
	case MediaBackendLocal:
	case MediaBackendS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return errors.New("config: MEDIA_BACKEND=s3 requires AWS_BUCKET_NAME and AWS_REGION")
		}
	default:
		return fmt.Errorf("config: unknown MEDIA_BACKEND %q", c.MediaBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// databaseURLFromParts assembles a postgres URL from the split DB_* variables.
// It returns "" when DB_HOST is unset so the caller falls back to sqlite.
func databaseURLFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASS")),
		Host:   host + ":" + getenv("DB_PORT", "5432"),
		Path:   "/" + os.Getenv("DB_NAME"),
	}
	return u.String()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
