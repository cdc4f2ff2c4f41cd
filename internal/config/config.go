package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret string

	// TokenMaxAge is the signature expiry in seconds. Revocation is handled
	// by the active-token ledger, not this window.
	TokenMaxAge int

	// ReferenceTimezone is the fixed display timezone for due dates.
	ReferenceTimezone string

	RedisURL string

	WorkerCount int

	FCMProjectID   string
	FCMClientEmail string
	FCMPrivateKey  string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	tokenMaxAge, err := strconv.Atoi(os.Getenv("TOKEN_MAX_AGE"))
	if err != nil || tokenMaxAge <= 0 {
		tokenMaxAge = 365 * 24 * 3600
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 2
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	referenceTZ := os.Getenv("REFERENCE_TIMEZONE")
	if referenceTZ == "" {
		referenceTZ = "Asia/Kolkata"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		TokenMaxAge: tokenMaxAge,

		ReferenceTimezone: referenceTZ,

		RedisURL: redisURL,

		WorkerCount: workerCount,

		FCMProjectID:   os.Getenv("FCM_PROJECT_ID"),
		FCMClientEmail: os.Getenv("FCM_CLIENT_EMAIL"),
		FCMPrivateKey:  os.Getenv("FCM_PRIVATE_KEY"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
	}, nil
}
