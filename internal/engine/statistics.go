package engine

import (
	"twinbolt-fault/internal/models"
)

// Statistics 按需计算跨实体故障统计（纯读、无缓存、无增量维护）
// 计数与调用时刻的存储内容内部一致：
// healthy+warning+critical+offline == total_models，
// active+resolved <= total_faults（acknowledged 两边都不计）
func (e *Engine) Statistics() models.FaultStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := models.FaultStatistics{
		FaultsBySeverity: make(map[string]int),
		FaultsByCategory: make(map[string]int),
		MTBFHours:        e.config.Detection.MTBFHours, // 配置占位值，见 DESIGN.md
		GeneratedAt:      e.now(),
	}

	for _, st := range e.health.List() {
		stats.TotalModels++
		switch st.OverallHealth {
		case models.HealthHealthy:
			stats.HealthyModels++
		case models.HealthWarning:
			stats.ModelsWithWarnings++
		case models.HealthCritical:
			stats.CriticalModels++
		case models.HealthOffline:
			stats.OfflineModels++
		}
	}

	var resolvedTotalMin float64
	for _, f := range e.faults.List() {
		stats.TotalFaults++
		stats.FaultsBySeverity[f.Severity]++
		stats.FaultsByCategory[f.Category]++

		switch f.Status {
		case models.FaultStatusActive:
			stats.ActiveFaults++
		case models.FaultStatusAcknowledged:
			stats.AcknowledgedFaults++
		case models.FaultStatusResolved:
			stats.ResolvedFaults++
			if f.ResolvedAt != nil {
				resolvedTotalMin += f.ResolvedAt.Sub(f.DetectedAt).Minutes()
			}
		}
	}

	if stats.ResolvedFaults > 0 {
		stats.AvgResolutionMin = resolvedTotalMin / float64(stats.ResolvedFaults)
	}

	return stats
}
