package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBLockWaitSecs  int
	DBMaxOpenConns  int
	JWTSecret       string
	CORSAllowedList []string

	HoldDuration      time.Duration
	StrictHoldExpiry  bool
	SweepInterval     time.Duration
	SweepBatchSize    int
	OutboxInterval    time.Duration
	OutboxBatchSize   int
	OutboxMaxAttempts int

	NotifyDriver   string
	SMSLenzBaseURL string
	SMSLenzUserID  string
	SMSLenzAPIKey  string
	SMSSenderID    string
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBHost:          getEnv("DB_HOST", "127.0.0.1"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "root"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          getEnv("DB_NAME", "seat_booking"),
		DBLockWaitSecs:  getEnvInt("DB_LOCK_WAIT_SECONDS", 5),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		CORSAllowedList: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		HoldDuration:      time.Duration(getEnvInt("HOLD_MINUTES", 15)) * time.Minute,
		StrictHoldExpiry:  getEnvBool("STRICT_HOLD_EXPIRY", false),
		SweepInterval:     getEnvDuration("SWEEP_INTERVAL", time.Minute),
		SweepBatchSize:    getEnvInt("SWEEP_BATCH_SIZE", 500),
		OutboxInterval:    getEnvDuration("OUTBOX_INTERVAL", 10*time.Second),
		OutboxBatchSize:   getEnvInt("OUTBOX_BATCH_SIZE", 50),
		OutboxMaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),

		NotifyDriver:   strings.ToLower(getEnv("NOTIFY_DRIVER", "log")),
		SMSLenzBaseURL: getEnv("SMSLENZ_BASE_URL", "https://smslenz.lk/api"),
		SMSLenzUserID:  os.Getenv("SMSLENZ_USER_ID"),
		SMSLenzAPIKey:  os.Getenv("SMSLENZ_API_KEY"),
		SMSSenderID:    getEnv("SMSLENZ_SENDER_ID", "BOOKMYSEAT"),
	}
}

// LockWait is the bound applied to every ledger transaction.
func (e Env) LockWait() time.Duration {
	if e.DBLockWaitSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(e.DBLockWaitSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
