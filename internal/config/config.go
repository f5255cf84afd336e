package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries process configuration. MongoURI and RedisAddr are
// optional: the coordinator runs fully in-memory without them.
type Config struct {
	HTTPPort      string
	JWTSecret     string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	IdleWindow    time.Duration
	QuestionCount int
}

// Load reads configuration from the environment with defaults
func Load() *Config {
	return &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "quizrooms"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		IdleWindow:    getDuration("ROOM_IDLE_WINDOW_SEC", 120),
		QuestionCount: getInt("QUIZ_QUESTION_COUNT", 10),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}
