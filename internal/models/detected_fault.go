package models

import (
	"time"
)

// 故障状态
const (
	FaultStatusActive        = "active"
	FaultStatusAcknowledged  = "acknowledged"
	FaultStatusResolved      = "resolved"
	FaultStatusFalsePositive = "false_positive"
)

// ParameterCorrelation 参数相关性（保留字段，当前不计算）
type ParameterCorrelation struct {
	ParameterA  string  `json:"parameter_a"`
	ParameterB  string  `json:"parameter_b"`
	Coefficient float64 `json:"coefficient"`
}

// RootCause 根因摘要
type RootCause struct {
	PrimaryCause        string   `json:"primary_cause"`
	ContributingFactors []string `json:"contributing_factors"`
	Confidence          float64  `json:"confidence"` // [0, 1]
}

// DiagnosticData 故障创建时刻的诊断快照
type DiagnosticData struct {
	SensorValues map[string]float64   `json:"sensor_values"` // 参数 -> 最新值
	Trends       map[string][]float64 `json:"trends"`        // 参数 -> 最近约 50 条的数值序列
	Correlations []ParameterCorrelation `json:"correlations"`
	RootCause    *RootCause           `json:"root_cause,omitempty"`
}

// DetectedFault 检测到的故障记录
// 去重不变式：同一 (rule_id, entity_id) 在状态为 active 期间最多存在一条
type DetectedFault struct {
	FaultID            string         `json:"fault_id"`
	RuleID             string         `json:"rule_id"`
	EntityID           string         `json:"entity_id"`
	Category           string         `json:"category"` // 创建时从规则复制
	Severity           string         `json:"severity"` // 创建时从规则复制
	Title              string         `json:"title"`
	Description        string         `json:"description"` // 规则描述加触发值/单位插值
	DetectedAt         time.Time      `json:"detected_at"`
	AcknowledgedAt     *time.Time     `json:"acknowledged_at,omitempty"`
	ResolvedAt         *time.Time     `json:"resolved_at,omitempty"`
	Status             string         `json:"status"` // active, acknowledged, resolved, false_positive
	AffectedComponents []string       `json:"affected_components"`
	Diagnostics        DiagnosticData `json:"diagnostics"`
	Location           *GeoLocation   `json:"location,omitempty"`
	RecommendedActions []string       `json:"recommended_actions"`
	RepeatCount        int            `json:"repeat_count"` // 去重期间被抑制的重复触发次数
}

// AlertNotification 面向用户的报警通知（经由旁路报警通道下发）
type AlertNotification struct {
	FaultID     string    `json:"fault_id"`
	EntityID    string    `json:"entity_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"`
	AutoDismiss bool      `json:"auto_dismiss"` // 故障报警固定为 false
	CreatedAt   time.Time `json:"created_at"`
}
