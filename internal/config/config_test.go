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
		"APP_ENV", "PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"IMPORTER_ENABLED", "IMPORTER_FEED_URL", "IMPORTER_INTERVAL", "IMPORTER_TIMEOUT",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)

	// Server defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Database defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "postgres", cfg.Database.Password)
	assert.Equal(t, "nightout_reservation", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Redis defaults
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	// Importer defaults
	assert.True(t, cfg.Importer.Enabled)
	assert.Equal(t, "", cfg.Importer.FeedURL)
	assert.Equal(t, 1*time.Hour, cfg.Importer.Interval)
	assert.Equal(t, 15*time.Second, cfg.Importer.Timeout)
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("PORT", "9090")
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("IMPORTER_ENABLED", "false")
	os.Setenv("IMPORTER_INTERVAL", "30m")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("PORT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("REDIS_HOST")
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("IMPORTER_ENABLED")
		os.Unsetenv("IMPORTER_INTERVAL")
	}()

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.Equal(t, "redis.example.com", cfg.Redis.Host)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.False(t, cfg.Importer.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Importer.Interval)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=postgres")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=testdb")
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
	defer os.Unsetenv("TEST_INT")

	assert.Equal(t, 42, getIntEnv("TEST_INT", 0))

	os.Setenv("TEST_INVALID_INT", "not_a_number")
	defer os.Unsetenv("TEST_INVALID_INT")

	assert.Equal(t, 99, getIntEnv("TEST_INVALID_INT", 99))
	assert.Equal(t, 100, getIntEnv("NON_EXISTENT_INT", 100))
}

func TestGetBoolEnv(t *testing.T) {
	os.Setenv("TEST_BOOL", "false")
	defer os.Unsetenv("TEST_BOOL")

	assert.False(t, getBoolEnv("TEST_BOOL", true))

	os.Setenv("TEST_INVALID_BOOL", "maybe")
	defer os.Unsetenv("TEST_INVALID_BOOL")

	assert.True(t, getBoolEnv("TEST_INVALID_BOOL", true))
	assert.False(t, getBoolEnv("NON_EXISTENT_BOOL", false))
}

func TestGetDurationEnv(t *testing.T) {
	os.Setenv("TEST_DURATION", "5m")
	defer os.Unsetenv("TEST_DURATION")

	assert.Equal(t, 5*time.Minute, getDurationEnv("TEST_DURATION", time.Second))

	os.Setenv("TEST_INVALID_DURATION", "invalid")
	defer os.Unsetenv("TEST_INVALID_DURATION")

	assert.Equal(t, 30*time.Second, getDurationEnv("TEST_INVALID_DURATION", 30*time.Second))
	assert.Equal(t, time.Minute, getDurationEnv("NON_EXISTENT_DURATION", time.Minute))
}
