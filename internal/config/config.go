package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config конфигурация сервиса. Порядок источников: значения по умолчанию,
// YAML файл из CONFIG_FILE, переменные окружения (в т.ч. из .env).
type Config struct {
	Environment     string   `yaml:"env"`
	LogLevel        string   `yaml:"log_level"`
	HTTPAddr        string   `yaml:"http_addr"`
	Storage         string   `yaml:"storage"`
	DBDSN           string   `yaml:"db_dsn"`
	TelegramToken   string   `yaml:"telegram_token"`
	// PublicURL адрес API календаря для мастера переноса в боте,
	// пусто - бот обращается к сервисам в том же процессе
	PublicURL       string   `yaml:"public_url"`
	WorkDayStart    int      `yaml:"work_day_start"`
	WorkDayEnd      int      `yaml:"work_day_end"`
	LessonDuration  int      `yaml:"lesson_duration"`
	CacheTTLMinutes int      `yaml:"cache_ttl_minutes"`
	UpcomingLimit   int      `yaml:"upcoming_limit"`
	WeeksAhead      int      `yaml:"weeks_ahead"`
	CORSOrigins     []string `yaml:"cors_origins"`
	Timezone        string   `yaml:"timezone"`
	PurgeCron       string   `yaml:"purge_cron"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Environment:     "development",
		HTTPAddr:        ":8080",
		Storage:         StoragePostgres,
		WorkDayStart:    9,
		WorkDayEnd:      21,
		LessonDuration:  40,
		CacheTTLMinutes: 10,
		UpcomingLimit:   5,
		WeeksAhead:      2,
		CORSOrigins:     []string{"*"},
		Timezone:        "Europe/Moscow",
		PurgeCron:       "@daily",
	}
}

// Load собирает конфигурацию и проверяет её
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load(".env")

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Environment, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.Storage, "STORAGE")
	setString(&c.DBDSN, "DB_DSN")
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.PublicURL, "PUBLIC_URL")
	setString(&c.Timezone, "TZ_NAME")
	setString(&c.PurgeCron, "PURGE_CRON")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"WORK_DAY_START", &c.WorkDayStart},
		{"WORK_DAY_END", &c.WorkDayEnd},
		{"LESSON_DURATION", &c.LessonDuration},
		{"CACHE_TTL_MINUTES", &c.CacheTTLMinutes},
		{"UPCOMING_LIMIT", &c.UpcomingLimit},
		{"WEEKS_AHEAD", &c.WeeksAhead},
	}
	for _, item := range ints {
		v := os.Getenv(item.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", item.key, err)
		}
		*item.dst = n
	}

	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	if c.WorkDayStart < 0 || c.WorkDayEnd > 24 || c.WorkDayStart >= c.WorkDayEnd {
		return fmt.Errorf("invalid work day %d-%d", c.WorkDayStart, c.WorkDayEnd)
	}
	if c.LessonDuration <= 0 {
		return fmt.Errorf("LESSON_DURATION must be positive")
	}
	if c.UpcomingLimit <= 0 || c.WeeksAhead <= 0 {
		return fmt.Errorf("UPCOMING_LIMIT and WEEKS_AHEAD must be positive")
	}
	if c.WeeksAhead > availability.MaxWeeksAhead {
		return fmt.Errorf("WEEKS_AHEAD must not exceed %d", availability.MaxWeeksAhead)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TZ_NAME: %w", err)
	}

	return nil
}

// Location часовой пояс, в котором считается "сейчас" для учеников
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheTTL время жизни кэша документов
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// BotEnabled задан ли токен Telegram
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
