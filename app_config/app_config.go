package app_config

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	HttpPort int `env:"HTTP_PORT, default=8000"`

	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Format: postgresql://<user>:<password>@<host>:<port>/<database_name>
	DatabaseUrl string `env:"DATABASE_URL, required"`

	RedisUrl string `env:"REDIS_URL, default=127.0.0.1:6379"`

	KafkaBrokers                   []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	KafkaConsumerGroupId           string   `env:"KAFKA_CONSUMER_GROUP_ID, default=user-management"`
	KafkaEventsTopic               string   `env:"KAFKA_EVENTS_TOPIC, default=civic-events"`
	KafkaAuditTopic                string   `env:"KAFKA_AUDIT_TOPIC, default=points-audit"`
	KafkaEventsConsumerConcurrency int      `env:"KAFKA_EVENTS_CONSUMER_CONCURRENCY, default=16"`

	JwtSecret string        `env:"JWT_SECRET, required"`
	JwtTtl    time.Duration `env:"JWT_TTL, default=24h"`

	LeaderboardSize int `env:"LEADERBOARD_SIZE, default=10"`

	CorsOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`
}

func NewAppConfig() *AppConfig {
	// Local development keeps DATABASE_URL and friends in a .env file.
	_ = godotenv.Load()

	ac := &AppConfig{}
	if err := envconfig.Process(context.Background(), ac); err != nil {
		slog.With("err", err).Error(
			"Failed to load environment variables",
		)
		os.Exit(1)
	}
	return ac
}
