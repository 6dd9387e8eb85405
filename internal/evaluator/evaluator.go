package evaluator

import (
	"time"

	"twinbolt-fault/internal/history"
	"twinbolt-fault/internal/models"
)

// Result 单条规则的评估结果
type Result struct {
	Satisfied bool
	// Condition 触发条件（与来读参数匹配且满足的条件），Satisfied 为 true 时非 nil
	Condition *models.Condition
}

// ConditionHolds 纯函数：数值是否命中条件的比较运算
// between/outside 缺失上界时视为不满足（规则配置错误不是运行错误，只是永不命中）
func ConditionHolds(cond models.Condition, value float64) bool {
	switch cond.Operator {
	case models.OpGreaterThan:
		return value > cond.Threshold
	case models.OpLessThan:
		return value < cond.Threshold
	case models.OpEqual:
		return value == cond.Threshold
	case models.OpNotEqual:
		return value != cond.Threshold
	case models.OpBetween:
		if cond.RangeMax == nil {
			return false
		}
		return value >= cond.Threshold && value <= *cond.RangeMax
	case models.OpOutside:
		if cond.RangeMax == nil {
			return false
		}
		return value < cond.Threshold || value > *cond.RangeMax
	default:
		// 未识别的运算符永不命中
		return false
	}
}

// Evaluate 评估单条规则对一条读数是否满足
//
// any 逻辑：任一与来读参数匹配的条件满足（含持续时间闸门）即触发。
// all 逻辑：来读参数的条件需满足，且其余条件以该实体各参数的最新缓冲值
// 核查，全部越限（且各自持续时间达标）才触发。参数不匹配的条件不算错误，
// 只是不由这条读数满足。
func Evaluate(rule models.FaultRule, reading models.SensorReading, hist *history.Store, gate *Gate, at time.Time) Result {
	if len(rule.Conditions) == 0 {
		return Result{}
	}

	entityID := reading.EntityID
	matchedSatisfied := -1

	// 先处理与来读参数匹配的条件，并推进闸门状态
	for i, cond := range rule.Conditions {
		if cond.Parameter != reading.SensorType {
			continue
		}
		violating := ConditionHolds(cond, reading.Value)
		if gate.Observe(rule.RuleID, entityID, i, violating, cond.DurationSec, at) && matchedSatisfied < 0 {
			matchedSatisfied = i
		}
	}

	if matchedSatisfied < 0 {
		return Result{}
	}

	if rule.ConditionLogic() == models.LogicAny {
		cond := rule.Conditions[matchedSatisfied]
		return Result{Satisfied: true, Condition: &cond}
	}

	// all 逻辑：其余参数的条件按最新缓冲值核查
	for i, cond := range rule.Conditions {
		if i == matchedSatisfied {
			continue
		}
		value := reading.Value
		if cond.Parameter != reading.SensorType {
			latest, ok := hist.Latest(entityID, cond.Parameter)
			if !ok {
				return Result{}
			}
			value = latest.Value
		}
		if !ConditionHolds(cond, value) {
			return Result{}
		}
		if !gate.Sustained(rule.RuleID, entityID, i, cond.DurationSec, at) {
			return Result{}
		}
	}

	cond := rule.Conditions[matchedSatisfied]
	return Result{Satisfied: true, Condition: &cond}
}
