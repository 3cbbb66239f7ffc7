package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "dev-session-secret"

type Config struct {
	Environment string
	Port        string

	Database DatabaseConfig
	Session  SessionConfig
	Mail     MailConfig

	CORSOrigins []string
	PublicDir   string
	Location    *time.Location

	// TransactionalBooking runs lesson insert and slot removal in one
	// transaction. Off by default: the lesson survives a failed slot removal.
	TransactionalBooking bool
	// StrictRegistration serializes uniqueness checks and insert.
	StrictRegistration bool

	LessonCompletionInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type SessionConfig struct {
	Secret   string
	TTL      time.Duration
	Secure   bool
	HTTPOnly bool
}

type MailConfig struct {
	SendGridAPIKey string
	From           string
	ContactInbox   string
}

// DSN returns the keyword/value connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8000"),
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: os.Getenv("DATABASE_PASSWORD"),
			Name:     getEnv("DATABASE_NAME", "tutoring"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			From:           getEnv("MAIL_FROM", "no-reply@tutoring.local"),
			ContactInbox:   os.Getenv("CONTACT_INBOX"),
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		PublicDir:   os.Getenv("PUBLIC_DIR"),
	}

	var errs []string
	var err error

	if cfg.Session.TTL, err = getEnvAsDuration("SESSION_TTL", 7*24*time.Hour); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Session.Secure, err = getEnvAsBool("COOKIE_SECURE", false); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Session.HTTPOnly, err = getEnvAsBool("COOKIE_HTTP_ONLY", false); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.TransactionalBooking, err = getEnvAsBool("TRANSACTIONAL_BOOKING", false); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.StrictRegistration, err = getEnvAsBool("STRICT_REGISTRATION", false); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.LessonCompletionInterval, err = getEnvAsDuration("LESSON_COMPLETION_INTERVAL", time.Hour); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local")); err != nil {
		errs = append(errs, fmt.Sprintf("TIMEZONE: %v", err))
	}

	if cfg.Session.Secret == "" {
		if cfg.IsProduction() {
			errs = append(errs, "SESSION_SECRET is required in production")
		}
		cfg.Session.Secret = devSessionSecret
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(errs, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return v, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	if raw == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if v := strings.TrimRight(strings.TrimSpace(p), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}
