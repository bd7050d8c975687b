// Package config loads runtime settings from .env and the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 存储后端
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

type Config struct {
	Port          string
	SiteURL       string
	SessionSecret string
	GinMode       string
	LogLevel      string

	StoreBackend string
	DatabaseURL  string
	BadgerPath   string
	SeedFile     string

	GoogleClientID     string
	GoogleClientSecret string
	DevLogin           bool

	CommentRate  float64 // 每个 IP 每秒允许的评论数
	CommentBurst int

	RenderCacheSize int
	RenderCacheTTL  time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads .env when present, then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (Config, bool) {
	found := godotenv.Load() == nil
	return FromEnv(), found
}

func FromEnv() Config {
	return Config{
		Port:          getenv("PORT", "8080"),
		SiteURL:       strings.TrimSuffix(getenv("SITE_URL", "http://localhost:8080"), "/"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		GinMode:       getenv("GIN_MODE", "release"),
		LogLevel:      getenv("LOG_LEVEL", "info"),

		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendMemory)),
		DatabaseURL:  getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable"),
		BadgerPath:   getenv("BADGER_PATH", "./data/badger"),
		SeedFile:     os.Getenv("SEED_FILE"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		DevLogin:           getbool("DEV_LOGIN", false),

		CommentRate:  getfloat("COMMENT_RATE", 0.2),
		CommentBurst: getint("COMMENT_BURST", 5),

		RenderCacheSize: getint("RENDER_CACHE_SIZE", 500),
		RenderCacheTTL:  getduration("RENDER_CACHE_TTL", 10*time.Minute),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func getint(key string, def int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}
