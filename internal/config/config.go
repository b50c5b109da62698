package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	CookieSecure       bool

	// Server
	Port        string
	CORSOrigins string
	BodyLimitMB int

	// Logging
	LogLevel         string
	LogFormat        string
	LogRetentionDays int

	// Media
	Media MediaConfig

	// Redis (rate limiter storage); empty address keeps limiter state in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (domain events); empty brokers disables publishing
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing
	OTLPEndpoint string
	ServiceName  string

	// Error tracking
	SentryDSN string
	AppEnv    string
}

// MediaConfig selects and configures the media asset backend.
type MediaConfig struct {
	Driver        string // "s3" or "minio"
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
	MaxAttempts   int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "vidtube"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m")),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "240h")),
		CookieSecure:       parseBool(getEnv("COOKIE_SECURE", "true")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		BodyLimitMB: parseInt(getEnv("BODY_LIMIT_MB", "512"), 512),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		Media: MediaConfig{
			Driver:        getEnv("MEDIA_DRIVER", "s3"),
			Endpoint:      getEnv("MEDIA_ENDPOINT", ""),
			Region:        getEnv("MEDIA_REGION", "us-east-1"),
			Bucket:        getEnv("MEDIA_BUCKET", "vidtube"),
			AccessKey:     getEnv("MEDIA_ACCESS_KEY", ""),
			SecretKey:     getEnv("MEDIA_SECRET_KEY", ""),
			UseSSL:        parseBool(getEnv("MEDIA_USE_SSL", "false")),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", ""),
			MaxAttempts:   parseInt(getEnv("MEDIA_MAX_ATTEMPTS", "3"), 3),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "vidtube.events"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "vidtube-backend"),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
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
