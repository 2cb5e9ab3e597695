package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	Postgres Postgres
	Kafka    Kafka
}

type Postgres struct {
	Host    string
	Port    int
	User    string
	Pass    string
	DB      string
	SSLMode string
}

type Kafka struct {
	// Brokers is a comma-separated list; empty disables publishing.
	Brokers    string
	OrderTopic string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		Postgres: Postgres{
			Host:    getEnv("POSTGRES_HOST", "localhost"),
			Port:    getEnvInt("POSTGRES_PORT", 5432),
			User:    getEnv("POSTGRES_USER", "shopcore"),
			Pass:    getEnv("POSTGRES_PASSWORD", "shopcorepassword"),
			DB:      getEnv("POSTGRES_DB", "shopcore_db"),
			SSLMode: getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Kafka: Kafka{
			Brokers:    getEnv("KAFKA_BROKERS", ""),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order.lifecycle"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
