package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnvAndDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "reader")
	t.Setenv("DB_NAME", "rooming")
	t.Setenv("DB_MAX_CONNS", "8")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, Password: "secret", SSLMode: "disable"}
	cfg.LoadFromEnv("DB")

	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 8, cfg.MaxConns)
	assert.Equal(t, "host=db.internal port=6543 user=reader password=secret dbname=rooming sslmode=disable", cfg.GetDSN())
}

func TestRedisConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")

	cfg := RedisConfig{Addr: "localhost:6379"}
	cfg.LoadFromEnv("REDIS")

	assert.Equal(t, "cache:6380", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Equal(t, "", cfg.Password)
}

func TestMQTTConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("MQTT_QOS", "1")

	cfg := MQTTConfig{ClientID: "rooming-data"}
	cfg.LoadFromEnv("MQTT")

	assert.Equal(t, "tcp://broker:1883", cfg.Broker)
	assert.Equal(t, "rooming-data", cfg.ClientID)
	assert.Equal(t, byte(1), cfg.QoS)
}

func TestS3Config_LoadFromEnv(t *testing.T) {
	t.Setenv("S3_BUCKET", "rfp")
	t.Setenv("S3_PATH_STYLE", "TRUE")

	cfg := S3Config{Key: "data/rfp-data.json"}
	cfg.LoadFromEnv("S3")

	assert.Equal(t, "rfp", cfg.Bucket)
	assert.Equal(t, "data/rfp-data.json", cfg.Key)
	assert.True(t, cfg.PathStyle)
}
