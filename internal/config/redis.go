package config

import (
	"os"
	"strconv"
)

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	InputStream  string
	OutputStream string
}

func GetRedisConfig() RedisConfig {
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			db = parsed
		}
	}

	return RedisConfig{
		Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		InputStream:  getEnv("REDIS_INPUT_STREAM", "ml_input"),
		OutputStream: getEnv("REDIS_OUTPUT_STREAM", "ml_output"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
