package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	TLSCertFile string
	TLSKeyFile  string
	DB          DBConfig
	Notifier    NotifierConfig
}

type DBConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type NotifierConfig struct {
	Enabled   bool
	SMTPAddr  string
	From      string
	Recipient string
	Username  string
	Password  string
	QueueSize int
}

// Load reads the service configuration from the environment, applying
// config.env first when the file is present. The zero configuration is a
// runnable one: an sqlite3 database file next to the binary and the
// notifier switched off.
func Load() (*Config, error) {
	if err := godotenv.Load("config.env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading config.env: %w", err)
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}

	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}

	queueSize, err := getEnvInt("NOTIFIER_QUEUE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	enabled, err := getEnvBool("NOTIFIER_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
		DB: DBConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite3"),
			DSN:          getEnv("DB_DSN", "txwatch.db"),
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		},
		Notifier: NotifierConfig{
			Enabled:   enabled,
			SMTPAddr:  getEnv("NOTIFIER_SMTP_ADDR", "localhost:587"),
			From:      os.Getenv("NOTIFIER_FROM"),
			Recipient: os.Getenv("NOTIFIER_RECIPIENT"),
			Username:  os.Getenv("NOTIFIER_USERNAME"),
			Password:  os.Getenv("NOTIFIER_PASSWORD"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DB.Driver)
	}

	if c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN must not be empty")
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if c.Notifier.Enabled {
		if c.Notifier.Recipient == "" {
			return fmt.Errorf("NOTIFIER_RECIPIENT is required when the notifier is enabled")
		}
		if c.Notifier.From == "" {
			return fmt.Errorf("NOTIFIER_FROM is required when the notifier is enabled")
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
