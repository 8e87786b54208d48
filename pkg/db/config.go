package db

import (
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func LoadPostgresConfig() PostgresConfig {
	cfg := PostgresConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     5432,
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   envOr("DB_NAME", "storefront"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),

		MaxOpenConns:    envIntOr("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns:    envIntOr("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: time.Hour,
	}
	if port, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && port > 0 {
		cfg.Port = port
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
