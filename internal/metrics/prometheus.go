package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsProcessed 已处理的传感器读数
	ReadingsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "twinbolt_readings_processed_total",
			Help: "Total number of sensor readings processed",
		},
	)

	// ReadingsSkipped 因缺失必要字段被跳过的读数
	ReadingsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "twinbolt_readings_skipped_total",
			Help: "Total number of malformed sensor readings skipped",
		},
	)

	// FaultsDetected 新建故障数
	FaultsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twinbolt_faults_detected_total",
			Help: "Total number of faults created",
		},
		[]string{"severity", "category"},
	)

	// FaultsSuppressed 被去重抑制的重复触发数
	FaultsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "twinbolt_faults_suppressed_total",
			Help: "Total number of duplicate fault triggers suppressed",
		},
	)

	// AlertsPublished 旁路报警通道发布结果
	AlertsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twinbolt_alerts_published_total",
			Help: "Total number of user-facing alerts published",
		},
		[]string{"status"},
	)

	// EntityHealthScore 实体当前健康评分
	EntityHealthScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "twinbolt_entity_health_score",
			Help: "Current health score per entity",
		},
		[]string{"entity_id"},
	)

	// ActiveFaults 当前 active 故障总数
	ActiveFaults = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "twinbolt_active_faults",
			Help: "Number of currently active faults",
		},
	)

	// AggregationDuration 健康聚合单次耗时
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "twinbolt_aggregation_duration_seconds",
			Help:    "Health aggregation pass duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)
)
