package engine

import (
	"context"
	"fmt"
	"time"

	"twinbolt-fault/internal/metrics"
	"twinbolt-fault/internal/models"

	"go.uber.org/zap"
)

// 各严重程度对健康评分的扣减
var severityPenalty = map[string]int{
	models.SeverityCritical: 30,
	models.SeverityHigh:     20,
	models.SeverityMedium:   10,
	models.SeverityLow:      5,
}

// Run 运行定时健康聚合循环，阻塞直到 ctx 取消
// 反应式聚合由 IngestBatch/SetConnectivity 触发，与本循环共用互斥域
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Duration(e.config.Detection.AggregationIntervalSec) * time.Second
	if interval <= 0 {
		return fmt.Errorf("invalid aggregation interval: %d", e.config.Detection.AggregationIntervalSec)
	}

	e.logger.Info("Health aggregation loop started",
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Health aggregation loop stopped")
			return nil
		case <-ticker.C:
			e.AggregateAll(ctx)
		}
	}
}

// AggregateAll 对全部已知实体做一次健康聚合
func (e *Engine) AggregateAll(ctx context.Context) {
	start := time.Now()

	e.mu.Lock()
	updated := make([]models.ModelHealthStatus, 0, len(e.entities))
	activeTotal := 0
	for entityID := range e.entities {
		status := e.computeHealthLocked(entityID)
		e.health.Replace(status)
		updated = append(updated, status)
		activeTotal += len(status.ActiveFaults)
	}
	e.mu.Unlock()

	metrics.ActiveFaults.Set(float64(activeTotal))
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	for _, status := range updated {
		e.publishHealth(ctx, status)
	}

	e.logger.Debug("Health aggregation pass completed",
		zap.Int("entity_count", len(updated)),
	)
}

// computeHealthLocked 重算单个实体的健康状态（整体替换投影）
//
// 评分从 100 起，按 active 故障严重程度累计扣减后截断到 [0,100]；
// 健康分类只升不降：存在 critical 故障即 critical，否则有 high/medium
// 为 warning，否则 healthy。offline 仅由连接状态驱动，覆盖分类但不
// 影响评分（恢复在线后分类立即回到故障推导值）
func (e *Engine) computeHealthLocked(entityID string) models.ModelHealthStatus {
	active := e.faults.ActiveByEntity(entityID)
	if active == nil {
		active = []models.DetectedFault{}
	}

	score := 100
	overall := models.HealthHealthy
	hasStructural := false
	for _, f := range active {
		score -= severityPenalty[f.Severity]
		switch f.Severity {
		case models.SeverityCritical:
			overall = models.HealthCritical
		case models.SeverityHigh, models.SeverityMedium:
			if overall != models.HealthCritical {
				overall = models.HealthWarning
			}
		}
		if f.Category == models.CategoryStructural {
			hasStructural = true
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	if _, off := e.offline[entityID]; off {
		overall = models.HealthOffline
	}

	status := models.ModelHealthStatus{
		EntityID:      entityID,
		OverallHealth: overall,
		HealthScore:   score,
		LastUpdated:   e.now(),
		Components:    []models.ComponentHealth{},
		ActiveFaults:  active,
		Performance:   e.performanceLocked(entityID),
		Insights:      []models.PredictiveInsight{},
	}

	if hasStructural {
		status.Insights = append(status.Insights, models.PredictiveInsight{
			Type:       "maintenance",
			Message:    "Active structural fault detected, preventive maintenance recommended",
			Confidence: 0.6,
			CreatedAt:  e.now(),
		})
	}

	metrics.EntityHealthScore.WithLabelValues(entityID).Set(float64(score))

	return status
}

// performanceLocked 从最新读数提取性能指标快照
func (e *Engine) performanceLocked(entityID string) models.PerformanceMetrics {
	perf := models.PerformanceMetrics{}
	if r, ok := e.history.Latest(entityID, models.SensorCPUUsage); ok {
		v := r.Value
		perf.CPUUsage = &v
	}
	if r, ok := e.history.Latest(entityID, models.SensorMemoryUsage); ok {
		v := r.Value
		perf.MemoryUsage = &v
	}
	if r, ok := e.history.Latest(entityID, models.SensorTemperature); ok {
		v := r.Value
		perf.Temperature = &v
	}
	if r, ok := e.history.Latest(entityID, models.SensorSignalStrength); ok {
		v := r.Value
		perf.SignalStrength = &v
	}
	return perf
}
