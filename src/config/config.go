package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	PlaidClientID string
	PlaidSecret   string
	PlaidEnv      string

	IdentityEndpoint string
	IdentityProject  string
	IdentityAPIKey   string

	ProcessorEndpoint string
	ProcessorAPIKey   string

	SharableIDSecret string
	RecordSealKey    string

	IsDemo bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		PlaidClientID: getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:   getEnv("PLAID_SECRET", ""),
		PlaidEnv:      getEnv("PLAID_ENV", "sandbox"),

		IdentityEndpoint: getEnv("IDENTITY_ENDPOINT", ""),
		IdentityProject:  getEnv("IDENTITY_PROJECT", ""),
		IdentityAPIKey:   getEnv("IDENTITY_API_KEY", ""),

		ProcessorEndpoint: getEnv("PROCESSOR_ENDPOINT", ""),
		ProcessorAPIKey:   getEnv("PROCESSOR_API_KEY", ""),

		SharableIDSecret: getEnv("SHARABLE_ID_SECRET", ""),
		RecordSealKey:    getEnv("RECORD_SEAL_KEY", ""),

		IsDemo: getEnv("IS_DEMO", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.PlaidClientID == "" || cfg.PlaidSecret == "" {
		log.Fatal("PLAID_CLIENT_ID and PLAID_SECRET are required")
	}
	if cfg.IdentityEndpoint == "" || cfg.IdentityProject == "" || cfg.IdentityAPIKey == "" {
		log.Fatal("IDENTITY_ENDPOINT, IDENTITY_PROJECT, and IDENTITY_API_KEY are required")
	}
	if cfg.ProcessorEndpoint == "" || cfg.ProcessorAPIKey == "" {
		log.Fatal("PROCESSOR_ENDPOINT and PROCESSOR_API_KEY are required")
	}
	if cfg.SharableIDSecret == "" || cfg.RecordSealKey == "" {
		log.Fatal("SHARABLE_ID_SECRET and RECORD_SEAL_KEY are required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
