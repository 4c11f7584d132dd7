package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the connection string for gorm's postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// KafkaConfig holds broker and topic settings for the event bus.
type KafkaConfig struct {
	Brokers             []string
	LocationTopic       string
	RouteEventsTopic    string
	ScheduleEventsTopic string
	ConsumerGroup       string
}

// RedisConfig holds settings for the optional live-position mirror.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ServiceConfig holds all configuration for the fleet service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	MetricsAddr string

	DBConfig    DatabaseConfig
	KafkaConfig KafkaConfig
	RedisConfig RedisConfig

	OSRMBaseURL     string
	AverageSpeedKmh float64

	PositionStaleAfter time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	cfg := &ServiceConfig{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		DBConfig: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "fleet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:             getCSVEnv("KAFKA_BROKERS", "localhost:9092"),
			LocationTopic:       getEnv("KAFKA_LOCATION_TOPIC", "fleet.locations"),
			RouteEventsTopic:    getEnv("KAFKA_ROUTE_EVENTS_TOPIC", "fleet.route.events"),
			ScheduleEventsTopic: getEnv("KAFKA_SCHEDULE_EVENTS_TOPIC", "fleet.schedule.events"),
			ConsumerGroup:       getEnv("KAFKA_CONSUMER_GROUP", "fleet-service"),
		},
		RedisConfig: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			TTL:      getDurationEnv("REDIS_POSITION_TTL", 2*time.Minute),
		},

		OSRMBaseURL:     getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		AverageSpeedKmh: getFloatEnv("AVG_SPEED_KMH", 30),

		PositionStaleAfter: getDurationEnv("POSITION_STALE_AFTER", 5*time.Minute),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.AverageSpeedKmh <= 0 {
		return nil, fmt.Errorf("AVG_SPEED_KMH must be positive, got %v", cfg.AverageSpeedKmh)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getCSVEnv(key, defaultVal string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
