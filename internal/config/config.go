package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string
	BaseURL   string

	JWTSecret string

	PostmarkToken string
	FromEmail     string
	EmailPerHour  int

	S3Endpoint    string
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	ArchiveKeep   int
	AllowedOrigin []string
}

// Load reads an optional .env file (see LoadFile) and then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile loads variables from path without overriding ones already set in
// the environment, then builds the config. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := &Config{
		Port:      getEnv("CHORECHART_PORT", "8080"),
		DBPath:    getEnv("CHORECHART_DB_PATH", "chorechart.db"),
		LogLevel:  getEnv("CHORECHART_LOG_LEVEL", "info"),
		LogFormat: getEnv("CHORECHART_LOG_FORMAT", "text"),
		BaseURL:   strings.TrimRight(getEnv("CHORECHART_BASE_URL", "http://localhost:8080"), "/"),

		JWTSecret: getEnv("CHORECHART_JWT_SECRET", ""),

		PostmarkToken: getEnv("CHORECHART_POSTMARK_TOKEN", ""),
		FromEmail:     getEnv("CHORECHART_FROM_EMAIL", ""),

		S3Endpoint:  getEnv("CHORECHART_S3_ENDPOINT", ""),
		S3Bucket:    getEnv("CHORECHART_S3_BUCKET", ""),
		S3Region:    getEnv("CHORECHART_S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("CHORECHART_S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("CHORECHART_S3_SECRET_KEY", ""),
	}

	var err error
	if cfg.EmailPerHour, err = getInt("CHORECHART_EMAIL_PER_HOUR", 10); err != nil {
		return nil, err
	}
	if cfg.ArchiveKeep, err = getInt("CHORECHART_ARCHIVE_KEEP", 20); err != nil {
		return nil, err
	}
	for _, o := range strings.Split(getEnv("CHORECHART_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigin = append(cfg.AllowedOrigin, o)
		}
	}

	if cfg.PostmarkToken != "" && cfg.FromEmail == "" {
		return nil, errors.New("CHORECHART_FROM_EMAIL is required when CHORECHART_POSTMARK_TOKEN is set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}
