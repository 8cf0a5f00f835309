package api

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	KafkaBrokers      []string
	KafkaTopic        string
}

// LoadConfig reads a local .env file if present, then environment variables,
// applying defaults.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaTopic:        envDefault("KAFKA_AUDIT_TOPIC", "poldo.audit"),
	}
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
