package rules

import (
	"time"

	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/models"
)

// Store 规则存储（内存态）
// 启动时装载默认规则集；核心不提供规则 CRUD 接口，规则视作静态配置
// 非并发安全：调用方（engine）持有统一互斥域串行化所有访问
type Store struct {
	rules map[string]*models.FaultRule
	order []string // 保持装载顺序，遍历结果可复现
}

// NewStore 创建规则存储
func NewStore() *Store {
	return &Store{
		rules: make(map[string]*models.FaultRule),
	}
}

// Upsert 新增或替换规则
func (s *Store) Upsert(rule models.FaultRule) {
	if _, ok := s.rules[rule.RuleID]; !ok {
		s.order = append(s.order, rule.RuleID)
	}
	r := rule
	s.rules[rule.RuleID] = &r
}

// Get 按ID查询规则
func (s *Store) Get(ruleID string) (models.FaultRule, bool) {
	r, ok := s.rules[ruleID]
	if !ok {
		return models.FaultRule{}, false
	}
	return *r, true
}

// List 返回全部规则（装载顺序）
func (s *Store) List() []models.FaultRule {
	out := make([]models.FaultRule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.rules[id])
	}
	return out
}

// ActiveFor 返回对目标实体生效的规则：active 且（全局规则或作用域等于该实体）
func (s *Store) ActiveFor(entityID string) []models.FaultRule {
	var out []models.FaultRule
	for _, id := range s.order {
		r := s.rules[id]
		if !r.Active {
			continue
		}
		if r.EntityID != "" && r.EntityID != entityID {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// SetActive 启用/停用规则
func (s *Store) SetActive(ruleID string, active bool) bool {
	r, ok := s.rules[ruleID]
	if !ok {
		return false
	}
	r.Active = active
	return true
}

// TouchLastTriggered 更新规则最近触发时间（每次触发都更新，含被去重抑制的触发）
func (s *Store) TouchLastTriggered(ruleID string, at time.Time) {
	if r, ok := s.rules[ruleID]; ok {
		t := at
		r.LastTriggered = &t
	}
}

// Defaults 构建默认规则集（阈值来自配置）
func Defaults(cfg *config.Config) []models.FaultRule {
	now := time.Now()
	rc := cfg.Detection.Rules
	return []models.FaultRule{
		{
			RuleID:   "rule-temperature-critical",
			Name:     "Critical Temperature",
			Category: models.CategoryEnvironmental,
			Severity: models.SeverityCritical,
			Conditions: []models.Condition{
				{Parameter: models.SensorTemperature, Operator: models.OpGreaterThan, Threshold: rc.TemperatureCritical},
			},
			Active:      true,
			Description: "Temperature exceeds safe operating limit",
			CreatedAt:   now,
		},
		{
			RuleID:   "rule-vibration-high",
			Name:     "High Vibration",
			Category: models.CategoryStructural,
			Severity: models.SeverityHigh,
			Conditions: []models.Condition{
				{Parameter: models.SensorVibration, Operator: models.OpGreaterThan, Threshold: rc.VibrationHigh, DurationSec: rc.VibrationSustainSec},
			},
			Active:      true,
			Description: "Sustained vibration above structural tolerance",
			CreatedAt:   now,
		},
		{
			RuleID:   "rule-connectivity-loss",
			Name:     "Connectivity Loss",
			Category: models.CategoryConnectivity,
			Severity: models.SeverityHigh,
			Conditions: []models.Condition{
				{Parameter: models.SensorSignalStrength, Operator: models.OpLessThan, Threshold: rc.SignalLow},
			},
			Active:      true,
			Description: "Signal strength below reliable communication threshold",
			CreatedAt:   now,
		},
		{
			// CPU 和内存需同时超限才算性能劣化，使用 all 逻辑
			RuleID:   "rule-performance-degradation",
			Name:     "Performance Degradation",
			Category: models.CategoryPerformance,
			Severity: models.SeverityMedium,
			Logic:    models.LogicAll,
			Conditions: []models.Condition{
				{Parameter: models.SensorCPUUsage, Operator: models.OpGreaterThan, Threshold: rc.CPUHigh},
				{Parameter: models.SensorMemoryUsage, Operator: models.OpGreaterThan, Threshold: rc.MemoryHigh},
			},
			Active:      true,
			Description: "CPU and memory usage are both saturated",
			CreatedAt:   now,
		},
	}
}
