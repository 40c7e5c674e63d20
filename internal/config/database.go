package config

import (
	"strings"
	"time"
)

type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Timeout      time.Duration
}

func loadDatabase() DatabaseConfig {
	driver := strings.ToLower(getenv("DATABASE_DRIVER", "sqlite"))
	dsn := getenv("DATABASE_DSN", "")
	if dsn == "" && driver == "sqlite" {
		dsn = getenv("DATABASE_PATH", "./data/privatepay.db")
	}
	return DatabaseConfig{
		Driver:       driver,
		DSN:          dsn,
		MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 4),
		Timeout:      durationEnvSeconds("STORE_TIMEOUT", 5*time.Second),
	}
}
