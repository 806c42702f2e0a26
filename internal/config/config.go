package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evetools/hangarstat/internal/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ESIURL            string
	ESIToken          string
	ESIRetryMax       int
	ESIRetryBaseDelay time.Duration

	DatabaseURL string

	OwnerID       int64
	OwnerName     string
	OwnerKind     domain.OwnerKind
	GrantedScopes []string

	PriceWorkerInterval    time.Duration
	SnapshotWorkerInterval time.Duration

	HTTPPort    string
	AdminAPIKey string

	GoogleCredentialsJSON string
	SheetsSpreadsheetID   string
}

// Owner assembles the tracked owner from the loaded identity fields.
func (c Config) Owner() domain.Owner {
	return domain.Owner{ID: c.OwnerID, Name: c.OwnerName, Kind: c.OwnerKind}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		ESIURL:            envOrDefault("ESI_URL", "https://esi.evetech.net/latest"),
		ESIToken:          envOrDefaultWarn("ESI_TOKEN", ""),
		ESIRetryMax:       envOrDefaultInt("ESI_RETRY_MAX", 5),
		ESIRetryBaseDelay: envOrDefaultDuration("ESI_RETRY_BASE_DELAY", 2*time.Second),

		DatabaseURL: envOrDefaultWarn("DATABASE_URL", ""),

		OwnerID:       int64(envOrDefaultInt("OWNER_ID", 0)),
		OwnerName:     envOrDefault("OWNER_NAME", ""),
		OwnerKind:     ownerKind(envOrDefault("OWNER_KIND", "character")),
		GrantedScopes: splitScopes(envOrDefault("GRANTED_SCOPES", "")),

		PriceWorkerInterval:    envOrDefaultDuration("PRICE_WORKER_INTERVAL", 1*time.Hour),
		SnapshotWorkerInterval: envOrDefaultDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),

		HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey: envOrDefault("ADMIN_API_KEY", ""),

		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		SheetsSpreadsheetID:   envOrDefault("SHEETS_SPREADSHEET_ID", ""),
	}
}

func ownerKind(v string) domain.OwnerKind {
	if v == string(domain.OwnerCorporation) {
		return domain.OwnerCorporation
	}
	return domain.OwnerCharacter
}

func splitScopes(v string) []string {
	if v == "" {
		return nil
	}
	var scopes []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
