package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all runtime settings of the API server.
type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	JWTExpiry       time.Duration
	LogLevel        string
	LogFile         string
	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string
	RateLimitRPS    float64
	RateLimitBurst  int
	CORSOrigins     []string
	DefaultETA      time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDB:         getEnv("MONGO_DB", "roadguard"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:       getDuration("JWT_EXPIRY", 24*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "roadguard-api"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "roadguard"),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 20),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		DefaultETA:      getDuration("DEFAULT_ETA", 15*time.Minute),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Invalid duration, using default")
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Invalid integer, using default")
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Invalid number, using default")
		return defaultValue
	}
	return f
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
