package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "twinbolt-fault", cfg.MQTT.ClientID)
	assert.Equal(t, "twinbolt/telemetry/#", cfg.MQTT.Topic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)

	assert.Equal(t, 1000, cfg.Detection.HistoryCapacity)
	assert.Equal(t, 50, cfg.Detection.SnapshotSize)
	assert.Equal(t, 30, cfg.Detection.AggregationIntervalSec)
	assert.Equal(t, 720.0, cfg.Detection.MTBFHours)

	assert.Equal(t, 85.0, cfg.Detection.Rules.TemperatureCritical)
	assert.Equal(t, 7.5, cfg.Detection.Rules.VibrationHigh)
	assert.Equal(t, 60, cfg.Detection.Rules.VibrationSustainSec)
	assert.Equal(t, 20.0, cfg.Detection.Rules.SignalLow)
	assert.Equal(t, 90.0, cfg.Detection.Rules.CPUHigh)
	assert.Equal(t, 90.0, cfg.Detection.Rules.MemoryHigh)

	assert.Equal(t, "twinbolt:entity:", cfg.Cache.HealthKeyPrefix)
	assert.Equal(t, ":health", cfg.Cache.HealthSuffix)
	assert.Equal(t, 60, cfg.Cache.HealthTTL)
	assert.Equal(t, "twinbolt:alerts:stream", cfg.Cache.AlertStream)

	assert.Equal(t, ":9105", cfg.Metrics.Addr)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// 设置环境变量
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("MQTT_BROKER", "tcp://test-broker:1883")
	os.Setenv("DETECTION_HISTORY_CAPACITY", "100")
	os.Setenv("DETECTION_AGGREGATION_INTERVAL", "5")
	os.Setenv("RULE_TEMPERATURE_CRITICAL", "95.5")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "tcp://test-broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, 100, cfg.Detection.HistoryCapacity)
	assert.Equal(t, 5, cfg.Detection.AggregationIntervalSec)
	assert.Equal(t, 95.5, cfg.Detection.Rules.TemperatureCritical)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidNumericValues(t *testing.T) {
	// 非法数字回退到默认值
	os.Setenv("DETECTION_HISTORY_CAPACITY", "not-a-number")
	os.Setenv("DETECTION_MTBF_HOURS", "abc")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Detection.HistoryCapacity)
	assert.Equal(t, 720.0, cfg.Detection.MTBFHours)
}
