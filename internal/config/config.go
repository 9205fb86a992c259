package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress    = "localhost:8080"
	defaultMigrationsDir = "internal/db/migrations"
	defaultJWTTTL        = 15 * time.Minute
	defaultOrderCacheTTL = 5 * time.Minute
)

type Config struct {
	RunAddress    string        `env:"RUN_ADDRESS"`
	DatabaseDSN   string        `env:"DATABASE_URI"`
	MigrationsDir string        `env:"MIGRATIONS_DIR"`
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTTTL        time.Duration `env:"JWT_TTL"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	OrderCacheTTL time.Duration `env:"ORDER_CACHE_TTL"`
}

// LoadConfig собирает конфиг из переменных окружения и флагов args. Переменные окружения
// приоритетнее флагов. Если рядом лежит .env, он подгружается в окружение до парсинга.
func LoadConfig(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if dotenvErr := godotenv.Load(); dotenvErr != nil && !errors.Is(dotenvErr, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", dotenvErr.Error())
	}

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %s", flagsErr.Error())
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTSecret == "" {
		return nil, errors.New("jwt secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config, args []string) error {
	fs := flag.NewFlagSet("ordersd", flag.ContinueOnError)

	fs.StringVar(&flagConfig.RunAddress, "a", defaultRunAddress, "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", defaultMigrationsDir, "Database migrations directory")
	fs.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	fs.DurationVar(&flagConfig.JWTTTL, "t", defaultJWTTTL, "JWT lifetime")
	fs.StringVar(&flagConfig.RedisAddr, "r", "", "Redis address for order cache, empty disables cache")

	return fs.Parse(args) //nolint:wrapcheck
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:    defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:   defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir: defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTSecret:     defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		JWTTTL:        defaultIfZero(envConfig.JWTTTL, flagsConfig.JWTTTL),
		RedisAddr:     defaultIfBlank(envConfig.RedisAddr, flagsConfig.RedisAddr),
		OrderCacheTTL: defaultIfZero(envConfig.OrderCacheTTL, defaultOrderCacheTTL),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfZero(value, defaultValue time.Duration) time.Duration {
	if value == 0 {
		return defaultValue
	}
	return value
}
