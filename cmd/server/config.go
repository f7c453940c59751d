package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/umar-b/BSMS-2/internal/adapters/esp"
	"github.com/umar-b/BSMS-2/internal/adapters/kafka"
	"github.com/umar-b/BSMS-2/internal/adapters/mock"
)

// Config holds application configuration
type Config struct {
	Port           string        // gRPC port
	HTTPPort       string        // dashboard HTTP port
	RecordInterval time.Duration // how often the device is polled
	RepoType       string        // "memory" | "sqlite"
	DBPath         string        // SQLite database file path (used when RepoType=sqlite)
	FetcherType    string        // "esp" | "mock"
	DeviceURL      string        // ESP32 telemetry endpoint
	DeviceName     string        // tag/key for published readings
	FetchTimeout   time.Duration // per-request timeout for the esp fetcher
	MockDelay      time.Duration // artificial latency of the mock fetcher
	InfluxURL      string        // enables the InfluxDB sink when set
	InfluxToken    string
	InfluxOrg      string
	InfluxBucket   string
	KafkaBrokers   []string // enables the Kafka sink when set
	KafkaTopic     string
	CORSOrigins    []string
	TLSCert        string // path to this service's certificate
	TLSKey         string // path to this service's private key
	TLSCA          string // path to the CA certificate
	LogLevel       string
}

// loadConfig reads configuration from environment variables
func loadConfig() Config {
	return Config{
		Port:           getEnv("PORT", "50051"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RecordInterval: getPositiveDuration("RECORD_INTERVAL", 30*time.Second),
		RepoType:       getEnv("REPO_TYPE", "memory"),
		DBPath:         getEnv("DB_PATH", "./iris.db"),
		FetcherType:    getEnv("FETCHER_TYPE", "mock"),
		DeviceURL:      getEnv("DEVICE_URL", esp.DefaultURL),
		DeviceName:     getEnv("DEVICE_NAME", "iris-01"),
		FetchTimeout:   getPositiveDuration("FETCH_TIMEOUT", esp.DefaultTimeout),
		MockDelay:      getDuration("MOCK_DELAY", mock.DefaultDelay),
		InfluxURL:      os.Getenv("INFLUX_URL"),
		InfluxToken:    os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:      getEnv("INFLUX_ORG", "bsms"),
		InfluxBucket:   getEnv("INFLUX_BUCKET", "iris"),
		KafkaBrokers:   getList("KAFKA_BROKERS", nil),
		KafkaTopic:     getEnv("KAFKA_TOPIC", kafka.DefaultTopic),
		CORSOrigins:    getList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		TLSCert:        os.Getenv("TLS_CERT"),
		TLSKey:         os.Getenv("TLS_KEY"),
		TLSCA:          os.Getenv("TLS_CA"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration keeps the fallback when the value does not parse
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

// getPositiveDuration is getDuration that also keeps the fallback for zero
// or negative values
func getPositiveDuration(key string, fallback time.Duration) time.Duration {
	d := getDuration(key, fallback)
	if d <= 0 {
		log.Warn().Str("key", key).Dur("value", d).Msg("non-positive duration, using default")
		return fallback
	}
	return d
}

// getList splits a comma-separated value, dropping empty entries
func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
