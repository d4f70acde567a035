package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBName       = "mingsdb"
	defaultPort         = "8080"
	defaultAppEnv       = "local"
	defaultJWTSecret    = "change-me-in-production"
	defaultRestaurantID = "6874cff2a880250859286de6"
	defaultTimeout      = 10 * time.Second
)

type Config struct {
	MongoURI       string
	DBName         string
	Port           string
	AppEnv         string
	JWTSecret      string
	RestaurantID   string
	AdminUsernames []string
	RequestTimeout time.Duration
}

// LoadEnv loads a .env file into the process environment when one exists.
// Variables already set in the environment win. A missing file is not an
// error; an unreadable or malformed one is.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func Load() *Config {
	if err := LoadEnv(); err != nil {
		slog.Warn("ignoring .env", "error", err)
	}

	timeout, err := time.ParseDuration(GetEnv("REQUEST_TIMEOUT", ""))
	if err != nil || timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Config{
		MongoURI:       MongoURI(),
		DBName:         GetEnv("DB_NAME", defaultDBName),
		Port:           GetEnv("PORT", defaultPort),
		AppEnv:         AppEnv(),
		JWTSecret:      GetEnv("JWT_SECRET", defaultJWTSecret),
		RestaurantID:   GetEnv("RESTAURANT_ID", defaultRestaurantID),
		AdminUsernames: splitList(GetEnv("ADMIN_USERNAMES", "")),
		RequestTimeout: timeout,
	}
}

// MongoURI returns MONGODB_URI, falling back to DATABASE_URL. Empty means
// the connection string was not supplied.
func MongoURI() string {
	if uri := GetEnv("MONGODB_URI", ""); uri != "" {
		return uri
	}
	return GetEnv("DATABASE_URL", "")
}

func AppEnv() string {
	return GetEnv("APP_ENV", defaultAppEnv)
}

func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
