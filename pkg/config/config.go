package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment (or a .env file)
type Config struct {
	Port        string
	FrontendURL string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string
	DBTimeZone  string
	DBLogLevel  string

	JWTSecret    string
	JWTExpiresIn time.Duration
	AdminSecret  string

	SeedAdminName     string
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "inventory"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DBTimeZone:  getEnv("DB_TIMEZONE", "UTC"),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "warn"),

		JWTSecret:    getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiresIn: getDuration("JWT_EXPIRES_IN", time.Hour),
		AdminSecret:  os.Getenv("ADMIN_SECRET"),

		SeedAdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
