package models

import (
	"time"
)

// 整体健康状态
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
	HealthOffline  = "offline" // 仅由设备连接状态驱动，不由故障评分推导
)

// ComponentHealth 组件健康条目（保留字段，当前不计算）
type ComponentHealth struct {
	Component string  `json:"component"`
	Health    string  `json:"health"`
	Score     int     `json:"score"`
}

// PerformanceMetrics 实体性能指标快照（取自最新读数）
type PerformanceMetrics struct {
	CPUUsage       *float64 `json:"cpu_usage,omitempty"`
	MemoryUsage    *float64 `json:"memory_usage,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	SignalStrength *float64 `json:"signal_strength,omitempty"`
}

// PredictiveInsight 预测性洞察
type PredictiveInsight struct {
	Type       string    `json:"type"` // 如 "maintenance"
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModelHealthStatus 实体健康状态（派生投影，每次聚合整体替换，不做增量合并）
type ModelHealthStatus struct {
	EntityID      string              `json:"entity_id"`
	OverallHealth string              `json:"overall_health"` // healthy, warning, critical, offline
	HealthScore   int                 `json:"health_score"`   // [0, 100]
	LastUpdated   time.Time           `json:"last_updated"`
	Components    []ComponentHealth   `json:"components"`
	ActiveFaults  []DetectedFault     `json:"active_faults"`
	Performance   PerformanceMetrics  `json:"performance"`
	Insights      []PredictiveInsight `json:"insights"`
}

// FaultStatistics 跨实体故障统计（按需计算，无缓存）
type FaultStatistics struct {
	TotalModels        int                `json:"total_models"`
	HealthyModels      int                `json:"healthy_models"`
	ModelsWithWarnings int                `json:"models_with_warnings"`
	CriticalModels     int                `json:"critical_models"`
	OfflineModels      int                `json:"offline_models"`
	TotalFaults        int                `json:"total_faults"`
	ActiveFaults       int                `json:"active_faults"`
	AcknowledgedFaults int                `json:"acknowledged_faults"`
	ResolvedFaults     int                `json:"resolved_faults"`
	FaultsBySeverity   map[string]int     `json:"faults_by_severity"`
	FaultsByCategory   map[string]int     `json:"faults_by_category"`
	AvgResolutionMin   float64            `json:"avg_resolution_min"` // 由 detected_at/resolved_at 差值推导
	MTBFHours          float64            `json:"mtbf_hours"`         // 配置占位值，见 DESIGN.md
	GeneratedAt        time.Time          `json:"generated_at"`
}
