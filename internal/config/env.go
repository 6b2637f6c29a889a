package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the trimmed value of the environment variable named by key,
// or fallback if the variable is unset or blank.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return fallback
}

// GetEnvPort returns key as a TCP port, or fallback if it is unset or not a
// port number.
func GetEnvPort(key string, fallback int) int {
	port, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil || port < 1 || port > 65535 {
		return fallback
	}
	return port
}
