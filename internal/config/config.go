package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Login gate
	AcceptedPIN string

	// Storage
	StoreBackend  string
	StateFilePath string
	SQLiteDBPath  string

	// AMQP (optional ledger event publishing; disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		AcceptedPIN: getEnv("ACCEPTED_PIN", "1234"),

		StoreBackend:  getEnv("STORE_BACKEND", "file"),
		StateFilePath: getEnv("STATE_FILE_PATH", "./data/bank_state.json"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/banquito.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "banquito"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate PIN: exactly four digits
	if len(c.AcceptedPIN) != 4 {
		errs = append(errs, "accepted PIN must be exactly 4 digits")
	} else {
		for _, r := range c.AcceptedPIN {
			if r < '0' || r > '9' {
				errs = append(errs, "accepted PIN must be exactly 4 digits")
				break
			}
		}
	}

	// Validate store backend
	switch c.StoreBackend {
	case "file":
		if c.StateFilePath == "" {
			errs = append(errs, "state file path cannot be empty when using file backend")
		} else {
			errs = append(errs, ensureParentDir(c.StateFilePath)...)
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			errs = append(errs, ensureParentDir(c.SQLiteDBPath)...)
		}
	case "memory":
		// nothing to validate
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [file sqlite memory]", c.StoreBackend))
	}

	// Validate AMQP settings only when publishing is enabled
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func ensureParentDir(path string) []string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return []string{fmt.Sprintf("cannot create data directory '%s': %v", dir, err)}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
