package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Freeeeeet/pto_bot/internal/calendar"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	defaultDBDSN           = "sqlite://pto.db"
	defaultCredentialsFile = "google-creds.json"
	defaultCalendarTimeout = 15 * time.Second
)

type Config struct {
	Environment string `toml:"env"`
	LogLevel    string `toml:"log_level"`
	DBDSN       string `toml:"db_dsn"`

	CalendarProvider   string        `toml:"calendar_provider"`
	DefaultCalendarID  string        `toml:"default_calendar_id"`
	DefaultChannelID   string        `toml:"default_channel_id"`
	TimeZone           string        `toml:"timezone"`
	VerifyOnBind       bool          `toml:"verify_calendar_on_bind"`
	CalendarTimeout    time.Duration `toml:"-"`
	CalendarTimeoutRaw string        `toml:"calendar_timeout"`

	GoogleCredentialsFile string `toml:"google_credentials_file"`
	GoogleImpersonate     string `toml:"google_impersonate"`

	CalDAVURL      string `toml:"caldav_url"`
	CalDAVUsername string `toml:"caldav_username"`
	CalDAVPassword string `toml:"caldav_password"`

	SlackBotToken string `toml:"slack_bot_token"`
	SlackAppToken string `toml:"slack_app_token"`
	TelegramToken string `toml:"telegram_token"`
}

func defaults() *Config {
	return &Config{
		Environment:           "development",
		LogLevel:              "info",
		DBDSN:                 defaultDBDSN,
		CalendarProvider:      calendar.ProviderGoogle,
		TimeZone:              "UTC",
		VerifyOnBind:          true,
		CalendarTimeout:       defaultCalendarTimeout,
		GoogleCredentialsFile: defaultCredentialsFile,
	}
}

// Load собирает конфиг: дефолты, затем TOML из PTO_CONFIG_FILE, затем переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := defaults()

	if path := os.Getenv("PTO_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		log.Printf("✅ Loaded configuration from %s\n", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DBDSN, "DB_DSN")
	setString(&c.CalendarProvider, "CALENDAR_PROVIDER")
	setString(&c.DefaultCalendarID, "PTO_CAL_ID")
	setString(&c.DefaultChannelID, "PTO_CHANNEL_ID")
	setString(&c.TimeZone, "PTO_TIMEZONE")
	setString(&c.GoogleCredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.GoogleImpersonate, "GOOGLE_IMPERSONATE")
	setString(&c.CalDAVURL, "CALDAV_URL")
	setString(&c.CalDAVUsername, "CALDAV_USERNAME")
	setString(&c.CalDAVPassword, "CALDAV_PASSWORD")
	setString(&c.SlackBotToken, "SLACK_BOT_TOKEN")
	setString(&c.SlackAppToken, "SLACK_APP_TOKEN")
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.CalendarTimeoutRaw, "CALENDAR_TIMEOUT")

	if raw := os.Getenv("VERIFY_CALENDAR_ON_BIND"); raw != "" {
		verify, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("VERIFY_CALENDAR_ON_BIND: %w", err)
		}
		c.VerifyOnBind = verify
	}

	if c.CalendarTimeoutRaw != "" {
		timeout, err := time.ParseDuration(c.CalendarTimeoutRaw)
		if err != nil {
			return fmt.Errorf("CALENDAR_TIMEOUT: %w", err)
		}
		c.CalendarTimeout = timeout
	}

	c.CalendarProvider = strings.ToLower(strings.TrimSpace(c.CalendarProvider))
	return nil
}

func setString(target *string, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

// Validate проверяет обязательные поля и их согласованность
func (c *Config) Validate() error {
	var errs []error

	if c.DefaultCalendarID == "" {
		errs = append(errs, errors.New("PTO_CAL_ID is required but not set"))
	}

	switch c.CalendarProvider {
	case calendar.ProviderGoogle:
		if c.GoogleCredentialsFile == "" {
			errs = append(errs, errors.New("GOOGLE_CREDENTIALS_FILE is required for google provider"))
		}
	case calendar.ProviderCalDAV:
		if c.CalDAVURL == "" {
			errs = append(errs, errors.New("CALDAV_URL is required for caldav provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CALENDAR_PROVIDER %q", c.CalendarProvider))
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("invalid PTO_TIMEZONE %q: %w", c.TimeZone, err))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel))
	}

	if c.CalendarTimeout <= 0 {
		errs = append(errs, errors.New("CALENDAR_TIMEOUT must be positive"))
	}

	if !c.SlackEnabled() && !c.TelegramEnabled() {
		errs = append(errs, errors.New("no chat transport configured: set SLACK_BOT_TOKEN and SLACK_APP_TOKEN or TELEGRAM_TOKEN"))
	}

	return errors.Join(errs...)
}

// SlackEnabled - для Socket Mode нужны оба токена
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// Location возвращает зону для timed заявок, уже проверенную в Validate
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
