package config

import (
	"github.com/joho/godotenv"
	"log"
	"os"
	"strconv"
	"strings"
)

type CarrierApiConfig struct {
	BaseUri      string
	ClientId     string
	ClientSecret string
}

type AuditConfig struct {
	MongoURL      string
	MongoDatabase string
}

type NotificationConfig struct {
	RabbitMQURL      string
	VHCRecipients    []string
	EscalationEmails []string
}

type Config struct {
	DSN               string
	LogsDirectory     string
	HTTPAddr          string
	MigrationsEnabled bool
	Audit             *AuditConfig
	Notifications     *NotificationConfig
	CarrierApi        *CarrierApiConfig
	CarrierScrapeURL  string

	// CarrierFeeds maps an upper-cased steamship line or rail provider to a processor kind.
	CarrierFeeds map[string]string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from any key lookup.
func FromEnv(getenv func(string) string) *Config {
	return &Config{
		DSN:               getenv("DATABASE_DSN"),
		LogsDirectory:     getenv("LOGS_DIRECTORY"),
		HTTPAddr:          withDefault(getenv("HTTP_ADDR"), ":8080"),
		MigrationsEnabled: parseBool(getenv("MIGRATIONS_ENABLED"), true),
		Audit: &AuditConfig{
			MongoURL:      getenv("AUDIT_MONGO_URL"),
			MongoDatabase: withDefault(getenv("AUDIT_MONGO_DATABASE"), "shipments"),
		},
		Notifications: &NotificationConfig{
			RabbitMQURL:      getenv("RABBITMQ_URL"),
			VHCRecipients:    splitList(withDefault(getenv("VHC_EMAILS"), "vhc-team@example.com")),
			EscalationEmails: splitList(getenv("ESCALATION_EMAILS")),
		},
		CarrierApi: &CarrierApiConfig{
			BaseUri:      getenv("CARRIER_API_BASE_URI"),
			ClientId:     getenv("CARRIER_API_CLIENT_ID"),
			ClientSecret: getenv("CARRIER_API_CLIENT_SECRET"),
		},
		CarrierScrapeURL: getenv("CARRIER_SCRAPE_URL"),
		CarrierFeeds:     parseFeeds(getenv("CARRIER_FEEDS")),
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFeeds reads "MAERSK:api,UNION PACIFIC:scrape".
func parseFeeds(v string) map[string]string {
	feeds := make(map[string]string)
	for _, entry := range splitList(v) {
		line, kind, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		line = strings.ToUpper(strings.TrimSpace(line))
		kind = strings.ToLower(strings.TrimSpace(kind))
		if line == "" || kind == "" {
			continue
		}
		feeds[line] = kind
	}
	return feeds
}
