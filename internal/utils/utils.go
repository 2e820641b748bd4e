package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env if present and returns the values of the required
// variables, failing when any of them is missing.
func LoadEnv(requiredVars []string) (map[string]string, error) {
	_ = godotenv.Load()

	envVars := make(map[string]string)

	for _, key := range requiredVars {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		envVars[key] = value
	}

	return envVars, nil
}

// OptionalEnv returns the variable's value or fallback when unset.
func OptionalEnv(key, fallback string) string {
	_ = godotenv.Load()

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
