package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirestoreDatabase          string
	ServiceAccountJSON         string
	ServiceAccountPath         string
	DeleteAuthProviderAccounts bool

	TokenSecret string
	TokenTTL    time.Duration

	RequestTimeout time.Duration
	LoginRateLimit int // requests per minute per IP
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", getEnv("PORT", "5000")),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirestoreDatabase:          getEnv("FIRESTORE_DATABASE_ID", "(default)"),
		ServiceAccountJSON:         getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:         getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		DeleteAuthProviderAccounts: getEnvAsBool("DELETE_AUTH_ACCOUNTS", true),

		TokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:    getEnvAsDuration("TOKEN_TTL", 12*time.Hour),

		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		LoginRateLimit: getEnvAsInt("LOGIN_RATE_LIMIT", 10),
	}

	if config.TokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be set")
	}
	if config.FirebaseProject == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID must be set")
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
