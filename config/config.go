package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config application configuration
type Config struct {
	TelegramToken    string        `yaml:"telegramToken"`
	GeminiAPIKey     string        `yaml:"geminiApiKey"`
	GeminiModel      string        `yaml:"geminiModel"`
	SheetsID         string        `yaml:"sheetsId"`
	SheetName        string        `yaml:"sheetName"`
	CredentialsJSON  string        `yaml:"-"`
	CredentialsFile  string        `yaml:"credentialsFile"`
	OwnerID          int64         `yaml:"ownerId"`
	AlertTime        string        `yaml:"alertTime"`
	AlertDays        int           `yaml:"alertDays"`
	ReturnWindowDays int           `yaml:"returnWindowDays"`
	Timezone         string        `yaml:"timezone"`
	CacheTTL         time.Duration `yaml:"cacheTtl"`
	RedisAddr        string        `yaml:"redisAddr"`
	JournalDBPath    string        `yaml:"journalDbPath"`
	LogLevel         string        `yaml:"logLevel"`
}

// Load reads .env, the optional YAML file named by CONFIG_FILE and the environment, in that order.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := config.loadEnv(); err != nil {
		return nil, err
	}

	if err := config.resolveCredentials(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		GeminiModel:      "gemini-2.5-flash",
		AlertTime:        "20:00",
		AlertDays:        5,
		ReturnWindowDays: 30,
		CacheTTL:         30 * time.Second,
		JournalDBPath:    "data/journal.db",
		LogLevel:         "info",
	}
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("CONFIG_FILE could not be read: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("CONFIG_FILE is not valid YAML: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.SheetsID, "GOOGLE_SHEETS_ID")
	setString(&c.SheetName, "SHEET_NAME")
	setString(&c.CredentialsJSON, "GOOGLE_CREDENTIALS_JSON")
	setString(&c.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.AlertTime, "ALERT_TIME")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")

	// an explicitly empty JOURNAL_DB_PATH selects the in-memory journal
	if raw, ok := os.LookupEnv("JOURNAL_DB_PATH"); ok {
		c.JournalDBPath = strings.TrimSpace(raw)
	}

	if raw := os.Getenv("TU_CHAT_ID"); raw != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("TU_CHAT_ID has an invalid format: %v", err)
		}
		c.OwnerID = parsed
	}

	if err := setInt(&c.AlertDays, "ALERT_DAYS"); err != nil {
		return err
	}
	if err := setInt(&c.ReturnWindowDays, "RETURN_WINDOW_DAYS"); err != nil {
		return err
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("CACHE_TTL has an invalid format: %v", err)
		}
		c.CacheTTL = ttl
	}

	return nil
}

func (c *Config) resolveCredentials() error {
	if c.CredentialsJSON != "" || c.CredentialsFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE could not be read: %w", err)
	}
	c.CredentialsJSON = string(data)
	return nil
}

// Validate checks required keys and value ranges
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN environment variable is empty")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is empty")
	}
	if c.SheetsID == "" {
		return fmt.Errorf("GOOGLE_SHEETS_ID environment variable is empty")
	}
	if c.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_JSON (or GOOGLE_CREDENTIALS_FILE) is empty")
	}
	if c.OwnerID == 0 {
		return fmt.Errorf("TU_CHAT_ID environment variable is empty")
	}
	if _, _, err := c.AlertClock(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.AlertDays < 0 {
		return fmt.Errorf("ALERT_DAYS must not be negative")
	}
	if c.ReturnWindowDays <= 0 {
		return fmt.Errorf("RETURN_WINDOW_DAYS must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	return nil
}

// AlertClock hour and minute of the daily alert
func (c *Config) AlertClock() (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.AlertTime))
	if err != nil {
		return 0, 0, fmt.Errorf("ALERT_TIME must look like HH:MM: %v", err)
	}
	return t.Hour(), t.Minute(), nil
}

// Location time zone used for dates and the alert schedule
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE is unknown: %v", err)
	}
	return loc, nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s has an invalid format: %v", key, err)
	}
	*dst = v
	return nil
}
