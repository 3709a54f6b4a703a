package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL string
	ServerAddr  string

	OutboundNotificationsURL string
	GatewayAuthToken         string
	GatewayTimeout           time.Duration
	APIPlatformEventsURL     string

	NotificationsPerRequest int
	NotificationTTL         time.Duration
	RetryIntervalSchedule   []time.Duration
	RetryWindow             time.Duration
	SweepInterval           time.Duration

	AllowedUserAgents []string

	// MessageEncryptionKey is the 32-byte key for message-at-rest encryption.
	MessageEncryptionKey []byte
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "notification_hub")
		pass := getenv("POSTGRES_PASSWORD", "notification_hub_pass")
		db := getenv("POSTGRES_DB", "notification_hub")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	outboundURL := os.Getenv("OUTBOUND_NOTIFICATIONS_URL")
	if outboundURL == "" {
		return nil, errors.New("OUTBOUND_NOTIFICATIONS_URL is required")
	}
	authToken := os.Getenv("GATEWAY_AUTH_TOKEN")
	if authToken == "" {
		return nil, errors.New("GATEWAY_AUTH_TOKEN is required")
	}
	eventsURL := os.Getenv("API_PLATFORM_EVENTS_URL")
	if eventsURL == "" {
		return nil, errors.New("API_PLATFORM_EVENTS_URL is required")
	}

	key, err := hex.DecodeString(os.Getenv("MESSAGE_ENCRYPTION_KEY"))
	if err != nil {
		return nil, fmt.Errorf("invalid MESSAGE_ENCRYPTION_KEY: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("MESSAGE_ENCRYPTION_KEY must be 64 hex characters (32 bytes)")
	}

	schedule, err := parseSchedule(getenv("RETRY_INTERVAL_SCHEDULE", "1s,5s,30s,5m,30m,1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_INTERVAL_SCHEDULE: %w", err)
	}

	return &Config{
		DatabaseURL:              dsn,
		ServerAddr:               getenv("SERVER_ADDR", "0.0.0.0:6701"),
		OutboundNotificationsURL: strings.TrimRight(outboundURL, "/"),
		GatewayAuthToken:         authToken,
		GatewayTimeout:           parseDuration(getenv("GATEWAY_TIMEOUT", "30s"), 30*time.Second),
		APIPlatformEventsURL:     strings.TrimRight(eventsURL, "/"),
		NotificationsPerRequest:  parseInt(getenv("NOTIFICATIONS_PER_REQUEST", "100"), 100),
		NotificationTTL:          parseDuration(getenv("NOTIFICATION_TTL", "720h"), 720*time.Hour),
		RetryIntervalSchedule:    schedule,
		RetryWindow:              parseDuration(getenv("RETRY_WINDOW", "6h"), 6*time.Hour),
		SweepInterval:            parseDuration(getenv("SWEEP_INTERVAL", "30s"), 30*time.Second),
		AllowedUserAgents:        splitCSV(getenv("ALLOWED_USER_AGENTS", "api-subscription-fields")),
		MessageEncryptionKey:     key,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseSchedule parses a comma-separated list of durations. The schedule must be
// non-empty and monotonic non-decreasing.
func parseSchedule(val string) ([]time.Duration, error) {
	parts := splitCSV(val)
	if len(parts) == 0 {
		return nil, errors.New("schedule is empty")
	}
	out := make([]time.Duration, 0, len(parts))
	var prev time.Duration
	for _, p := range parts {
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("interval %q must be positive", p)
		}
		if d < prev {
			return nil, fmt.Errorf("interval %q decreases from %s", p, prev)
		}
		out = append(out, d)
		prev = d
	}
	return out, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
