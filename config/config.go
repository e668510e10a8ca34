package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBDriver string
	DBHost   string
	DBUser   string
	DBPass   string
	DBName   string
	DBPort   string
	JWTKey   string

	// Quiz policy
	CompletionThreshold int
	DefaultPassingScore int
	BlockDays           int

	CatalogURL string

	EmailSender    string
	SendGridAPIKey string

	BlockSweepSchedule string
	RateLimitMax       int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:     getEnv("PORT", "3000"),
		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBHost:   getEnv("DB_HOST", "localhost"),
		DBUser:   getEnv("DB_USER", "postgres"),
		DBPass:   getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "quizgate"),
		DBPort:   getEnv("DB_PORT", "5432"),
		JWTKey:   getEnv("JWT_SECRET_KEY", "defaultSecret"),

		CompletionThreshold: getEnvInt("QUIZ_COMPLETION_THRESHOLD", 90),
		DefaultPassingScore: getEnvInt("QUIZ_DEFAULT_PASSING_SCORE", 80),
		BlockDays:           getEnvInt("QUIZ_BLOCK_DAYS", 10),

		CatalogURL: getEnv("CATALOG_URL", ""),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		BlockSweepSchedule: getEnv("BLOCK_SWEEP_SCHEDULE", ""),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 30),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.CompletionThreshold < 0 || AppConfig.CompletionThreshold > 100 {
		log.Printf("Warning: QUIZ_COMPLETION_THRESHOLD %d out of range, using 90", AppConfig.CompletionThreshold)
		AppConfig.CompletionThreshold = 90
	}
	if AppConfig.DefaultPassingScore < 0 || AppConfig.DefaultPassingScore > 100 {
		log.Printf("Warning: QUIZ_DEFAULT_PASSING_SCORE %d out of range, using 80", AppConfig.DefaultPassingScore)
		AppConfig.DefaultPassingScore = 80
	}
	if AppConfig.BlockDays <= 0 {
		log.Printf("Warning: QUIZ_BLOCK_DAYS %d must be positive, using 10", AppConfig.BlockDays)
		AppConfig.BlockDays = 10
	}
	if AppConfig.RateLimitMax <= 0 {
		log.Printf("Warning: RATE_LIMIT_MAX %d must be positive, using 30", AppConfig.RateLimitMax)
		AppConfig.RateLimitMax = 30
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
