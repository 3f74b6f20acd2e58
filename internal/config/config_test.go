package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 環境変数をクリア
	envVars := []string{
		"PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"KAFKA_BROKER", "KAFKA_TOPIC", "KAFKA_ENABLED",
		"ROOM_LOCK_TTL", "ROOM_LOCK_MAX_RETRIES", "ROOM_LOCK_RETRY_DELAY",
		"HOLDS_BLOCK_RESERVATIONS", "HOLD_SWEEP_INTERVAL", "METRICS_AUTH_TOKEN",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "hotel_reservation", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "booking-events", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)

	assert.Equal(t, 10*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, 3, cfg.Booking.LockMaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Booking.LockRetryDelay)
	assert.False(t, cfg.Booking.HoldsBlockReservations)

	assert.Equal(t, time.Minute, cfg.Worker.SweepInterval)
	assert.Equal(t, "", cfg.Metrics.AuthToken)
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_TOPIC", "hotel-events")
	os.Setenv("ROOM_LOCK_TTL", "5s")
	os.Setenv("ROOM_LOCK_MAX_RETRIES", "10")
	os.Setenv("HOLDS_BLOCK_RESERVATIONS", "true")
	os.Setenv("HOLD_SWEEP_INTERVAL", "30s")
	os.Setenv("METRICS_AUTH_TOKEN", "secret")
	defer func() {
		for _, env := range []string{
			"PORT", "DB_HOST", "KAFKA_ENABLED", "KAFKA_TOPIC",
			"ROOM_LOCK_TTL", "ROOM_LOCK_MAX_RETRIES",
			"HOLDS_BLOCK_RESERVATIONS", "HOLD_SWEEP_INTERVAL", "METRICS_AUTH_TOKEN",
		} {
			os.Unsetenv(env)
		}
	}()

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, "hotel-events", cfg.Kafka.Topic)
	assert.Equal(t, 5*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, 10, cfg.Booking.LockMaxRetries)
	assert.True(t, cfg.Booking.HoldsBlockReservations)
	assert.Equal(t, 30*time.Second, cfg.Worker.SweepInterval)
	assert.Equal(t, "secret", cfg.Metrics.AuthToken)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "hotel_reservation",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=postgres")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=hotel_reservation")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{Host: "localhost", Port: "6379"}
	assert.Equal(t, "localhost:6379", cfg.Addr())
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_ENV_VAR", "custom_value")
	defer os.Unsetenv("TEST_ENV_VAR")

	assert.Equal(t, "custom_value", getEnv("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}

func TestGetIntEnv(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_INVALID_INT", "not_a_number")
	defer func() {
		os.Unsetenv("TEST_INT")
		os.Unsetenv("TEST_INVALID_INT")
	}()

	assert.Equal(t, 42, getIntEnv("TEST_INT", 0))
	assert.Equal(t, 99, getIntEnv("TEST_INVALID_INT", 99))
	assert.Equal(t, 100, getIntEnv("NON_EXISTENT_INT", 100))
}

func TestGetBoolEnv(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	os.Setenv("TEST_INVALID_BOOL", "maybe")
	defer func() {
		os.Unsetenv("TEST_BOOL")
		os.Unsetenv("TEST_INVALID_BOOL")
	}()

	assert.True(t, getBoolEnv("TEST_BOOL", false))
	assert.False(t, getBoolEnv("TEST_INVALID_BOOL", false))
	assert.True(t, getBoolEnv("NON_EXISTENT_BOOL", true))
}

func TestGetDurationEnv(t *testing.T) {
	os.Setenv("TEST_DURATION", "5m")
	os.Setenv("TEST_INVALID_DURATION", "invalid")
	defer func() {
		os.Unsetenv("TEST_DURATION")
		os.Unsetenv("TEST_INVALID_DURATION")
	}()

	assert.Equal(t, 5*time.Minute, getDurationEnv("TEST_DURATION", time.Second))
	assert.Equal(t, 30*time.Second, getDurationEnv("TEST_INVALID_DURATION", 30*time.Second))
	assert.Equal(t, time.Minute, getDurationEnv("NON_EXISTENT_DURATION", time.Minute))
}
