// Package config provides centralized default values for the portoJD telemetry core
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Telemetry Storage
	StorageDriver string // "sqlite3" or "libsql"
	StoragePath   string
	MaxEvents     int // 0 = unbounded; the personal site never evicts

	// Metrics Forwarding
	MetricsEndpoint       string
	MetricsForwardEnabled bool
	MetricsForwardTimeout time.Duration

	// Behavior Inference
	IdleNudgeAfter     time.Duration
	IdleCheckInterval  time.Duration
	BounceCheckFirst   time.Duration
	BounceCheckSecond  time.Duration
	BounceCheckThird   time.Duration
	DemoNudgeThreshold int

	// Admin Auth
	AdminPasswordHash string
	JWTSecret         string
	JWTExpiry         time.Duration

	// Report Delivery
	ResendAPIKey    string
	ReportFromEmail string
	ReportToEmail   string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Telemetry Storage
	StorageDriver = getEnvString("HEP_STORAGE_DRIVER", "sqlite3")
	StoragePath = getEnvString("HEP_STORAGE_PATH", "hep-metrics.db")
	MaxEvents = getEnvInt("HEP_MAX_EVENTS", 0)

	// Metrics Forwarding
	MetricsEndpoint = getEnvString("HEP_METRICS_ENDPOINT", "/api/hep-metrics")
	MetricsForwardEnabled = getEnvBool("HEP_METRICS_FORWARD", false)
	MetricsForwardTimeout = getEnvDuration("HEP_METRICS_FORWARD_TIMEOUT", 3*time.Second)

	// Behavior Inference
	IdleNudgeAfter = getEnvDuration("HEP_IDLE_NUDGE_AFTER", 60*time.Second)
	IdleCheckInterval = getEnvDuration("HEP_IDLE_CHECK_INTERVAL", 5*time.Second)
	BounceCheckFirst = getEnvDuration("HEP_BOUNCE_CHECK_FIRST", 30*time.Second)
	BounceCheckSecond = getEnvDuration("HEP_BOUNCE_CHECK_SECOND", 60*time.Second)
	BounceCheckThird = getEnvDuration("HEP_BOUNCE_CHECK_THIRD", 90*time.Second)
	DemoNudgeThreshold = getEnvInt("HEP_DEMO_NUDGE_THRESHOLD", 5)

	// Admin Auth
	AdminPasswordHash = getEnvString("HEP_ADMIN_PASSWORD_HASH", "")
	JWTSecret = getEnvString("HEP_JWT_SECRET", "")
	JWTExpiry = getEnvDuration("HEP_JWT_EXPIRY", 24*time.Hour)

	// Report Delivery
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	ReportFromEmail = getEnvString("HEP_REPORT_FROM", "coach@portojd.local")
	ReportToEmail = getEnvString("HEP_REPORT_TO", "")
}
