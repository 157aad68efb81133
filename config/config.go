package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string
	Env      string // "development" or "production"

	JWTSecret   string
	JWTTTLHours int

	AllowedOrigins []string

	UploadDir     string
	MaxPDFBytes   int64
	MaxVideoBytes int64
	AnalyzerURL   string

	SendGridAPIKey string
	SenderName     string
	SenderEmail    string

	AWSRegion     string
	AWSBucketName string // empty disables S3 storage

	RedisURL string // empty disables caching

	RateLimitAuthRPS   float64
	RateLimitAuthBurst int
}

// Load reads environment variables (optionally from a .env file) and
// returns the resolved configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	origins := strings.Split(getEnv("CLIENT_ORIGINS", "http://localhost:5173,http://localhost:5174"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/"),
		DBName:   getEnv("DB_NAME", "campushub"),
		Port:     getEnv("PORT", "4000"),
		Env:      getEnv("APP_ENV", "development"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24*7),

		AllowedOrigins: origins,

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxPDFBytes:   getEnvInt64("MAX_PDF_BYTES", 5<<20),
		MaxVideoBytes: getEnvInt64("MAX_VIDEO_BYTES", 50<<20),
		AnalyzerURL:   getEnv("ANALYZER_URL", "http://localhost:5001"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		SenderName:     getEnv("SENDER_NAME", "CampusHub"),
		SenderEmail:    getEnv("SENDER_EMAIL", "no-reply@campushub.app"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		AWSBucketName: getEnv("AWS_BUCKET_NAME", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
	}
}

// IsProduction reports whether the app runs with production cookie settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
