package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Booking  BookingConfig
	Worker   WorkerConfig
	Metrics  MetricsConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig はドメインイベント配信用のKafka設定
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// BookingConfig は予約コアの動作設定
type BookingConfig struct {
	// 部屋ロックのTTLとリトライ
	LockTTL        time.Duration
	LockMaxRetries int
	LockRetryDelay time.Duration

	// ACTIVEなホールドがCONFIRMED予約の作成もブロックするか
	// （観測された元実装の挙動は false。ステークホルダー確認用に設定化）
	HoldsBlockReservations bool
}

// WorkerConfig は期限切れホールドスイーパーの設定
type WorkerConfig struct {
	SweepInterval time.Duration
}

// MetricsConfig は/metricsエンドポイントの保護設定
type MetricsConfig struct {
	AuthToken string
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hotel_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "booking-events"),
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
		},
		Booking: BookingConfig{
			LockTTL:                getDurationEnv("ROOM_LOCK_TTL", 10*time.Second),
			LockMaxRetries:         getIntEnv("ROOM_LOCK_MAX_RETRIES", 3),
			LockRetryDelay:         getDurationEnv("ROOM_LOCK_RETRY_DELAY", 100*time.Millisecond),
			HoldsBlockReservations: getBoolEnv("HOLDS_BLOCK_RESERVATIONS", false),
		},
		Worker: WorkerConfig{
			SweepInterval: getDurationEnv("HOLD_SWEEP_INTERVAL", 1*time.Minute),
		},
		Metrics: MetricsConfig{
			AuthToken: getEnv("METRICS_AUTH_TOKEN", ""),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
