package engine

import (
	"fmt"
	"strconv"

	"twinbolt-fault/internal/evaluator"
	"twinbolt-fault/internal/models"

	"github.com/google/uuid"
)

// rootCauseConfidence 根因摘要的固定置信度（启发式，未做真实推断）
const rootCauseConfidence = 0.75

// recommendedActions 按故障分类的推荐处置（静态表）
var recommendedActions = map[string][]string{
	models.CategoryPerformance: {
		"Review workload distribution and scale out if possible",
		"Restart the affected processing unit during a maintenance window",
	},
	models.CategoryStructural: {
		"Schedule a physical inspection of the affected structure",
		"Reduce operating load until the inspection is complete",
	},
	models.CategoryEnvironmental: {
		"Check cooling and ventilation systems",
		"Verify ambient conditions against equipment specifications",
	},
	models.CategoryConnectivity: {
		"Check network links and gateway power supply",
		"Inspect antenna placement and signal obstructions",
	},
	models.CategoryDataQuality: {
		"Recalibrate the reporting sensor",
		"Cross-check readings against a reference instrument",
	},
}

// fallbackAction 未识别分类的兜底处置
const fallbackAction = "Contact technical support"

// materializeLocked 由满足的规则和触发读数合成新故障记录
// 严重程度与分类从规则复制（创建后不再重算）
func (e *Engine) materializeLocked(rule models.FaultRule, reading models.SensorReading, result evaluator.Result) models.DetectedFault {
	measured := formatValue(reading.Value, reading.Unit)

	components := []string{reading.EntityID}
	if reading.DeviceID != "" {
		components = []string{reading.DeviceID}
	}

	return models.DetectedFault{
		FaultID:            uuid.New().String(),
		RuleID:             rule.RuleID,
		EntityID:           reading.EntityID,
		Category:           rule.Category,
		Severity:           rule.Severity,
		Title:              rule.Name,
		Description:        fmt.Sprintf("%s (measured %s)", rule.Description, measured),
		DetectedAt:         e.now(),
		Status:             models.FaultStatusActive,
		AffectedComponents: components,
		Diagnostics:        e.buildDiagnosticsLocked(rule, reading, result),
		Location:           reading.Location,
		RecommendedActions: actionsFor(rule.Category),
	}
}

// buildDiagnosticsLocked 构建诊断快照：每个出现过的参数取最新值和
// 最近约 50 条的走势序列；相关性列表保留为空（形状稳定，暂不计算）
func (e *Engine) buildDiagnosticsLocked(rule models.FaultRule, reading models.SensorReading, result evaluator.Result) models.DiagnosticData {
	recent := e.history.Recent(reading.EntityID, e.config.Detection.SnapshotSize)

	values := make(map[string]float64)
	trends := make(map[string][]float64)
	for _, r := range recent {
		values[r.SensorType] = r.Value // 时间顺序遍历，留下的是最新值
		trends[r.SensorType] = append(trends[r.SensorType], r.Value)
	}

	diag := models.DiagnosticData{
		SensorValues: values,
		Trends:       trends,
		Correlations: []models.ParameterCorrelation{},
	}

	if result.Condition != nil {
		diag.RootCause = &models.RootCause{
			PrimaryCause:        fmt.Sprintf("abnormal %s reading (%s)", result.Condition.Parameter, formatValue(reading.Value, reading.Unit)),
			ContributingFactors: e.contributingFactorsLocked(rule, reading, *result.Condition),
			Confidence:          rootCauseConfidence,
		}
	}

	return diag
}

// contributingFactorsLocked 同规则其他条件中当前也越限的参数
func (e *Engine) contributingFactorsLocked(rule models.FaultRule, reading models.SensorReading, trigger models.Condition) []string {
	factors := []string{}
	for _, cond := range rule.Conditions {
		if cond.Parameter == trigger.Parameter {
			continue
		}
		latest, ok := e.history.Latest(reading.EntityID, cond.Parameter)
		if ok && evaluator.ConditionHolds(cond, latest.Value) {
			factors = append(factors, fmt.Sprintf("%s at %s", cond.Parameter, formatValue(latest.Value, latest.Unit)))
		}
	}
	return factors
}

// actionsFor 分类推荐处置查表，未识别分类回退为联系技术支持
func actionsFor(category string) []string {
	if actions, ok := recommendedActions[category]; ok {
		out := make([]string, len(actions))
		copy(out, actions)
		return out
	}
	return []string{fallbackAction}
}

// formatValue 数值加单位的展示形式，如 "90°C"
func formatValue(value float64, unit string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + unit
}
