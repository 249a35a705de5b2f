package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
	Cleanup  CleanupConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
}

type JWTConfig struct {
	AccessSecret       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type CleanupConfig struct {
	TokenInterval time.Duration
}

// SeedConfig describes the admin account created at startup when it does not exist yet.
// Seeding is skipped while AdminEmail or AdminPassword is empty.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverMySQL))

	config := &Config{
		Database: DatabaseConfig{
			Driver:      driver,
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", defaultPort(driver)),
			User:        getEnv("DB_USER", "root"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "hcp_visits"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SQLitePath:  getEnv("SQLITE_PATH", "data/hcp_visits.db"),
			AutoMigrate: parseBool(getEnv("DB_AUTO_MIGRATE", "false")),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Cleanup: CleanupConfig{
			TokenInterval: parseDuration(getEnv("TOKEN_CLEANUP_INTERVAL", "1h"), time.Hour),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("ADMIN_NAME", "Admin User"),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default %s\n", s, fallback)
		return fallback
	}
	return duration
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
