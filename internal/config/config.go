// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
// Carrier credentials are validated by the carrier clients, not here, so a
// UPS-only deployment does not need USPS credentials and vice versa.
type Config struct {
	UPSUsername     string
	UPSPassword     string
	UPSLicense      string
	USPSUserID      string
	USPSCompanyName string
	USPSClientIP    string
	LogLevel        string
	LogPretty       bool
	Port            string
	Concurrency     int
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		UPSUsername:     k.String("UPS_USERNAME"),
		UPSPassword:     k.String("UPS_PASSWORD"),
		UPSLicense:      k.String("UPS_LICENSE"),
		USPSUserID:      k.String("USPS_USER_ID"),
		USPSCompanyName: k.String("USPS_COMPANY_NAME"),
		USPSClientIP:    k.String("USPS_CLIENT_IP"),
		LogLevel:        valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogPretty:       parseBool(k.String("LOG_PRETTY")),
		Port:            valueOrDefault(k.String("PORT"), "8080"),
		Concurrency:     parseInt(k.String("TRACK_CONCURRENCY"), 1),
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return b
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
