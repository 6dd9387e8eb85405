package config

import (
	"os"
	"strconv"
)

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string // 遥测数据订阅主题
	QoS      byte
}

// Config 故障检测服务配置
type Config struct {
	Redis RedisConfig
	MQTT  MQTTConfig

	// 故障检测引擎配置
	Detection struct {
		HistoryCapacity        int     // 每实体环形缓冲容量，默认 1000
		SnapshotSize           int     // 诊断快照取最近多少条读数，默认 50
		AggregationIntervalSec int     // 健康聚合定时器间隔（秒），默认 30
		MTBFHours              float64 // MTBF 占位常量（小时），统计接口直接上报

		// 默认规则阈值（阈值属于配置，不属于行为）
		Rules struct {
			TemperatureCritical float64 // 温度临界阈值（°C），默认 85
			VibrationHigh       float64 // 振动高位阈值（mm/s），默认 7.5
			VibrationSustainSec int     // 振动需持续的秒数，默认 60
			SignalLow           float64 // 信号强度下限（%），默认 20
			CPUHigh             float64 // CPU 占用上限（%），默认 90
			MemoryHigh          float64 // 内存占用上限（%），默认 90
		}
	}

	// Redis 旁路缓存/报警通道配置
	Cache struct {
		HealthKeyPrefix string // 健康状态缓存键前缀，如 "twinbolt:entity:"
		HealthSuffix    string // 健康状态缓存键后缀，如 ":health"
		HealthTTL       int    // 健康状态缓存 TTL（秒），默认 60
		AlertStream     string // 报警通知流名称，如 "twinbolt:alerts:stream"
	}

	Metrics struct {
		Addr string // Prometheus /metrics 监听地址
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "twinbolt-fault")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TELEMETRY_TOPIC", "twinbolt/telemetry/#")
	cfg.MQTT.QoS = 1

	// 故障检测引擎配置
	cfg.Detection.HistoryCapacity = getEnvInt("DETECTION_HISTORY_CAPACITY", 1000)
	cfg.Detection.SnapshotSize = getEnvInt("DETECTION_SNAPSHOT_SIZE", 50)
	cfg.Detection.AggregationIntervalSec = getEnvInt("DETECTION_AGGREGATION_INTERVAL", 30)
	cfg.Detection.MTBFHours = getEnvFloat("DETECTION_MTBF_HOURS", 720)

	cfg.Detection.Rules.TemperatureCritical = getEnvFloat("RULE_TEMPERATURE_CRITICAL", 85)
	cfg.Detection.Rules.VibrationHigh = getEnvFloat("RULE_VIBRATION_HIGH", 7.5)
	cfg.Detection.Rules.VibrationSustainSec = getEnvInt("RULE_VIBRATION_SUSTAIN", 60)
	cfg.Detection.Rules.SignalLow = getEnvFloat("RULE_SIGNAL_LOW", 20)
	cfg.Detection.Rules.CPUHigh = getEnvFloat("RULE_CPU_HIGH", 90)
	cfg.Detection.Rules.MemoryHigh = getEnvFloat("RULE_MEMORY_HIGH", 90)

	cfg.Cache.HealthKeyPrefix = getEnv("CACHE_HEALTH_PREFIX", "twinbolt:entity:")
	cfg.Cache.HealthSuffix = ":health"
	cfg.Cache.HealthTTL = getEnvInt("CACHE_HEALTH_TTL", 60)
	cfg.Cache.AlertStream = getEnv("ALERT_STREAM", "twinbolt:alerts:stream")

	cfg.Metrics.Addr = getEnv("METRICS_ADDR", ":9105")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
