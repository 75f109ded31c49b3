// Package config содержит логику чтения конфигурации сервиса учёта сервисных заказов.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultCacheTTL   = 10 * time.Minute
	defaultLogLevel   = "info"
	defaultRateLimit  = 600
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress  string        `env:"RUN_ADDRESS"`
	DatabaseURI string        `env:"DATABASE_URI"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	CacheTTL    time.Duration `env:"CACHE_TTL"`
	LogLevel    string        `env:"LOG_LEVEL"`
	// RateLimit задаёт число запросов к API с одного IP в минуту.
	RateLimit int `env:"RATE_LIMIT"`
	// AllowedOrigins перечисляет источники, которым разрешены кросс-доменные запросы.
	AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for the order total cache")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", defaultCacheTTL, "order total cache TTL")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	flag.IntVar(&cfg.RateLimit, "rate-limit", defaultRateLimit, "API requests per minute per IP, 0 disables the limit")
	origins := flag.String("cors", "", "comma separated list of allowed CORS origins")

	flag.Parse()

	if fromEnv.RunAddress != "" {
		cfg.RunAddress = fromEnv.RunAddress
	}
	if fromEnv.DatabaseURI != "" {
		cfg.DatabaseURI = fromEnv.DatabaseURI
	}
	if fromEnv.RedisAddr != "" {
		cfg.RedisAddr = fromEnv.RedisAddr
	}
	if isSet("CACHE_TTL") {
		cfg.CacheTTL = fromEnv.CacheTTL
	}
	if fromEnv.LogLevel != "" {
		cfg.LogLevel = fromEnv.LogLevel
	}
	if isSet("RATE_LIMIT") {
		cfg.RateLimit = fromEnv.RateLimit
	}
	if len(fromEnv.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = splitList(*origins)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative: %d", cfg.RateLimit)
	}

	return cfg, nil
}

// isSet сообщает, что переменная окружения задана непустой строкой, в том числе нулём.
func isSet(key string) bool {
	v, ok := os.LookupEnv(key)
	return ok && v != ""
}

func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
