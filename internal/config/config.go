package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Broker selects the queue adapter the worker consumes from.
const (
	BrokerPostgres = "postgres"
	BrokerKafka    = "kafka"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server (worker health surface and the submission/admin API)
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Queue broker
	Broker            string
	QueueName         string
	PollMaxMessages   int
	PollWaitTime      time.Duration
	VisibilityTimeout time.Duration
	MaxReceiveCount   int
	IdleDelay         time.Duration
	BackoffInitial    time.Duration
	BackoffMax        time.Duration
	Workers           int

	// Kafka (only read when QUEUE_BROKER=kafka)
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Outbound transports
	EmailEndpoint    string
	TopicEndpoint    string
	TransportTimeout time.Duration

	// Default channel identities used when a tenant config leaves the
	// corresponding field empty. Deployment-specific.
	DefaultEmailIdentity string
	DefaultTopic         string

	// Rate limiting: maximum transport calls per second per channel.
	// Zero or negative disables the limit.
	RateLimit int
}

func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	broker := getEnv("QUEUE_BROKER", BrokerPostgres)
	if broker != BrokerPostgres && broker != BrokerKafka {
		return nil, fmt.Errorf("QUEUE_BROKER must be %q or %q, got %q", BrokerPostgres, BrokerKafka, broker)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		Broker:            broker,
		QueueName:         getEnv("QUEUE_NAME", "notification-queue"),
		PollMaxMessages:   getInt("POLL_MAX_MESSAGES", 1),
		PollWaitTime:      getDuration("POLL_WAIT_TIME", 10*time.Second),
		VisibilityTimeout: getDuration("VISIBILITY_TIMEOUT", 30*time.Second),
		MaxReceiveCount:   getInt("MAX_RECEIVE_COUNT", 5),
		IdleDelay:         getDuration("IDLE_DELAY", time.Second),
		BackoffInitial:    getDuration("POLL_BACKOFF_INITIAL", time.Second),
		BackoffMax:        getDuration("POLL_BACKOFF_MAX", 60*time.Second),
		Workers:           getInt("WORKERS", 1),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "notifications"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "notification-worker"),

		EmailEndpoint:    getEnv("EMAIL_TRANSPORT_URL", "http://localhost:9901/email"),
		TopicEndpoint:    getEnv("TOPIC_TRANSPORT_URL", "http://localhost:9902/publish"),
		TransportTimeout: getDuration("TRANSPORT_TIMEOUT", 10*time.Second),

		DefaultEmailIdentity: getEnv("DEFAULT_EMAIL_IDENTITY", "notifications@project-dolphin.com"),
		DefaultTopic:         getEnv("DEFAULT_BROADCAST_TOPIC", "notifications-broadcast"),

		RateLimit: getInt("RATE_LIMIT_PER_CHANNEL", 100),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
