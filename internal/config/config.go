package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs      int
	PeriodLockTTLSecs int
	MaxClockSkewSecs  int

	LogLevel   string
	LogFormat  string
	DBLogLevel string
	DBSlowMS   int
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "payroll")
	v.SetDefault("MYSQL_USER", "payroll")
	v.SetDefault("MYSQL_PASS", "payroll")
	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)
	v.SetDefault("PERIOD_LOCK_TTL_SECONDS", 120)
	v.SetDefault("MAX_CLOCK_SKEW_SECONDS", 300)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_SLOW_MS", 200)
}

// Load reads the process environment over built-in defaults.
func Load() *Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetString("APP_PORT"),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		IdempTTLSecs:      v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		PeriodLockTTLSecs: v.GetInt("PERIOD_LOCK_TTL_SECONDS"),
		MaxClockSkewSecs:  v.GetInt("MAX_CLOCK_SKEW_SECONDS"),

		LogLevel:   v.GetString("LOG_LEVEL"),
		LogFormat:  v.GetString("LOG_FORMAT"),
		DBLogLevel: v.GetString("DB_LOG_LEVEL"),
		DBSlowMS:   v.GetInt("DB_SLOW_MS"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.IdempTTLSecs <= 0 || c.PeriodLockTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS and PERIOD_LOCK_TTL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) PeriodLockTTL() time.Duration {
	return time.Duration(c.PeriodLockTTLSecs) * time.Second
}

func (c *Config) MaxClockSkew() time.Duration {
	return time.Duration(c.MaxClockSkewSecs) * time.Second
}

func (c *Config) DBSlowThreshold() time.Duration {
	return time.Duration(c.DBSlowMS) * time.Millisecond
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime for DATE/DATETIME, UTC so trip dates compare as calendar days
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
