package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var (
	once     sync.Once
	instance *Config
)

type Config struct {
	APIAddress string `env:"API_ADDRESS" envDefault:":8080"`
	JWTSecret  string `env:"JWT_SECRET,required"`

	PostgresAddress  string `env:"POSTGRES_DB_ADDRESS" envDefault:"localhost:5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"readtogether"`

	// Empty address disables completion publishing
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoggerLevel  string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat string `env:"LOGGER_FORMAT" envDefault:"text"`

	// Empty endpoint keeps metrics in-process
	OTelEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"readtogether"`

	Timezone           string        `env:"APP_TIMEZONE" envDefault:"Local"`
	StatsCacheTTL      time.Duration `env:"STATS_CACHE_TTL" envDefault:"2m"`
	EntriesCacheTTL    time.Duration `env:"ENTRIES_CACHE_TTL" envDefault:"5m"`
	CacheSweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"1m"`
	StreakLookbackDays int           `env:"STREAK_LOOKBACK_DAYS" envDefault:"365"`
	HistoryLimit       int           `env:"HISTORY_LIMIT" envDefault:"500"`
	StoreFetchTimeout  time.Duration `env:"STORE_FETCH_TIMEOUT" envDefault:"15s"`

	BreakerMaxFailures   int           `env:"BREAKER_MAX_FAILURES" envDefault:"3"`
	BreakerCooldown      time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s"`
	BreakerHalfOpenCalls int           `env:"BREAKER_HALF_OPEN_CALLS" envDefault:"1"`
}

// New loads ./configs/.env (if present) and the environment once per process.
func New() *Config {
	once.Do(func() {
		if err := godotenv.Load("./configs/.env"); err != nil {
			log.Printf("WARN: cannot load .env file: %v, using environment variables", err)
		}
		cfg, err := Load()
		if err != nil {
			log.Fatal("loading config error: ", err)
		}
		instance = cfg
	})
	return instance
}

// Load parses the current environment without caching.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("parsing envs error: " + err.Error())
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves APP_TIMEZONE, the calendar that defines "today".
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.New("invalid APP_TIMEZONE: " + err.Error())
	}
	return loc, nil
}
