package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort            string
	AppMode            string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	JWTSecret          string
	JWTExpiryMin       int
	MediaSecret        string
	RTCTokenExpirySec  int
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	SearchCacheTTLSec  int
	S3Bucket           string
	S3Region           string
	S3AccessKey        string
	S3SecretKey        string
	S3Endpoint         string
	RateLimitEnabled   bool
	InterviewReminders bool
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		AppMode:            getEnv("APP_MODE", "debug"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "portal"),
		DBPort:             getEnv("DB_PORT", "5432"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		JWTExpiryMin:       getEnvAsInt("JWT_EXPIRY_MIN", 60),
		MediaSecret:        getEnv("MEDIA_SECRET", "change-me-too"),
		RTCTokenExpirySec:  getEnvAsInt("RTC_TOKEN_EXPIRY", 3600),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		SearchCacheTTLSec:  getEnvAsInt("CHAT_SEARCH_CACHE_TTL", 20),
		S3Bucket:           getEnv("S3_BUCKET", "portal-uploads"),
		S3Region:           getEnv("S3_REGION", "ap-south-1"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		RateLimitEnabled:   getEnvAsBool("RATE_LIMIT_ENABLED", true),
		InterviewReminders: getEnvAsBool("INTERVIEW_REMINDERS", false),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
