package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/dirk.krummacker/mini-crm/internal/store"
)

// Supported values of the STORE variable.
const (
	StoreMongo = "mongo"
	StoreMySQL = "mysql"
)

// Config holds the process settings. They are taken from the environment, optionally seeded from
// a .env file in the working directory.
type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	RequestLogging bool
	Store          string
	MongoURI       string
	MongoDatabase  string
	MySQL          store.MySQLConfig
	CORSOrigins    []string
	TracingEnabled bool
}

// Load reads the .env file, if there is one, and then the environment. Variables that are already
// set in the environment win over the .env file.
func Load() (Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
//
// Usage example on the command line:
// > PORT=8080 STORE=mongo MONGO_URI=mongodb://localhost:27017 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Environment:    getEnvOrDefault("APP_ENV", "development"),
		LogLevel:       strings.ToLower(os.Getenv("LOG_LEVEL")),
		RequestLogging: !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
		Store:          strings.ToLower(getEnvOrDefault("STORE", StoreMongo)),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DB", "minicrm"),
		MySQL: store.MySQLConfig{
			Host:     getEnvOrDefault("DBHOST", "localhost:3306"),
			User:     os.Getenv("DBUSER"),
			Password: os.Getenv("DBPWD"),
			Database: getEnvOrDefault("DBNAME", "test"),
		},
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		TracingEnabled: parseBool(os.Getenv("OTEL_ENABLED")),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("could not parse PORT env variable %q: %w", cfg.Port, err)
	}
	if cfg.Store != StoreMongo && cfg.Store != StoreMySQL {
		return Config{}, fmt.Errorf("unknown STORE %q, expected %q or %q", cfg.Store, StoreMongo, StoreMySQL)
	}
	return cfg, nil
}

// Production reports whether the process runs in the production environment.
func (c Config) Production() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
