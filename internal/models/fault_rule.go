package models

import (
	"time"
)

// 故障分类
const (
	CategoryPerformance   = "performance"
	CategoryStructural    = "structural"
	CategoryEnvironmental = "environmental"
	CategoryConnectivity  = "connectivity"
	CategoryDataQuality   = "data_quality"
)

// 严重程度
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// 比较运算符
const (
	OpGreaterThan = "gt"
	OpLessThan    = "lt"
	OpEqual       = "eq"
	OpNotEqual    = "ne"
	OpBetween     = "between" // threshold <= value <= range_max
	OpOutside     = "outside" // value < threshold || value > range_max
)

// 条件组合逻辑
const (
	LogicAny = "any" // 任一条件满足即触发
	LogicAll = "all" // 所有条件同时满足才触发
)

// Condition 规则条件
// between/outside 使用 threshold 作为下界、range_max 作为上界
type Condition struct {
	Parameter   string   `json:"parameter"`    // 目标传感器参数，如 "temperature"
	Operator    string   `json:"operator"`     // gt, lt, eq, ne, between, outside
	Threshold   float64  `json:"threshold"`
	RangeMax    *float64 `json:"range_max,omitempty"`
	DurationSec int      `json:"duration_sec,omitempty"` // 最小持续时间（秒），0 表示立即触发
}

// FaultRule 故障检测规则
type FaultRule struct {
	RuleID        string      `json:"rule_id"`
	Name          string      `json:"name"`
	EntityID      string      `json:"entity_id,omitempty"` // 为空表示对所有实体生效
	Category      string      `json:"category"`            // performance, structural, environmental, connectivity, data_quality
	Severity      string      `json:"severity"`            // low, medium, high, critical
	Logic         string      `json:"logic,omitempty"`     // any（默认）或 all
	Conditions    []Condition `json:"conditions"`
	Active        bool        `json:"active"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"created_at"`
	LastTriggered *time.Time  `json:"last_triggered,omitempty"`
}

// ConditionLogic 返回规则的条件组合逻辑（缺省为 any）
func (r *FaultRule) ConditionLogic() string {
	if r.Logic == LogicAll {
		return LogicAll
	}
	return LogicAny
}
