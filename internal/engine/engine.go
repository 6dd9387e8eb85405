package engine

import (
	"context"
	"sync"
	"time"

	"twinbolt-fault/internal/cache"
	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/evaluator"
	"twinbolt-fault/internal/history"
	"twinbolt-fault/internal/metrics"
	"twinbolt-fault/internal/models"
	"twinbolt-fault/internal/notify"
	"twinbolt-fault/internal/rules"
	"twinbolt-fault/internal/store"

	"go.uber.org/zap"
)

// Engine 故障检测与健康评分引擎
//
// 单互斥域：mu 串行化读数处理、健康聚合与生命周期操作对
// 故障/健康/规则/历史存储的全部访问；订阅者投递与 Redis 旁路
// 写入都在锁外进行，管线不会被外部 I/O 阻塞
type Engine struct {
	config *config.Config
	logger *zap.Logger

	mu      sync.Mutex
	rules   *rules.Store
	faults  *store.FaultStore
	health  *store.HealthStore
	history *history.Store
	gate    *evaluator.Gate

	devices  map[string]string   // device_id -> entity_id
	offline  map[string]struct{} // 连接状态离线的实体（独立于故障评分的第二聚合输入）
	entities map[string]struct{} // 已知实体集合

	fanout      *notify.Fanout
	alerter     notify.Alerter
	healthCache *cache.HealthCache // 可为 nil（未配置 Redis 缓存时）

	now func() time.Time // 测试可替换
}

// NewEngine 创建引擎并装载默认规则集
func NewEngine(
	cfg *config.Config,
	fanout *notify.Fanout,
	alerter notify.Alerter,
	healthCache *cache.HealthCache,
	logger *zap.Logger,
) *Engine {
	ruleStore := rules.NewStore()
	for _, r := range rules.Defaults(cfg) {
		ruleStore.Upsert(r)
	}

	return &Engine{
		config:      cfg,
		logger:      logger,
		rules:       ruleStore,
		faults:      store.NewFaultStore(),
		health:      store.NewHealthStore(),
		history:     history.NewStore(cfg.Detection.HistoryCapacity),
		gate:        evaluator.NewGate(),
		devices:     make(map[string]string),
		offline:     make(map[string]struct{}),
		entities:    make(map[string]struct{}),
		fanout:      fanout,
		alerter:     alerter,
		healthCache: healthCache,
		now:         time.Now,
	}
}

// RegisterDevice 登记设备到实体的归属关系
func (e *Engine) RegisterDevice(deviceID, entityID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.devices[deviceID] = entityID
	e.entities[entityID] = struct{}{}
}

// IngestBatch 处理一批传感器读数，返回实际处理条数
// 单条读数不合法只跳过该条，不中断整批
func (e *Engine) IngestBatch(ctx context.Context, readings []models.SensorReading) int {
	var created []models.DetectedFault
	var updated []models.ModelHealthStatus
	processed := 0

	e.mu.Lock()
	touched := make(map[string]struct{})
	for _, reading := range readings {
		if !reading.Valid() {
			metrics.ReadingsSkipped.Inc()
			e.logger.Warn("Skipping malformed sensor reading",
				zap.String("device_id", reading.DeviceID),
				zap.String("sensor_type", reading.SensorType),
			)
			continue
		}

		reading.EntityID = e.resolveEntityLocked(reading)
		if reading.Timestamp.IsZero() {
			reading.Timestamp = e.now()
		}

		e.history.Record(reading.EntityID, reading)
		touched[reading.EntityID] = struct{}{}

		created = append(created, e.evaluateReadingLocked(reading)...)

		metrics.ReadingsProcessed.Inc()
		processed++
	}

	// 反应式聚合：本批涉及的实体立即重算健康状态
	for entityID := range touched {
		status := e.computeHealthLocked(entityID)
		e.health.Replace(status)
		updated = append(updated, status)
	}
	e.mu.Unlock()

	// 记录已完整落库，锁外投递
	for _, fault := range created {
		e.publishFault(ctx, fault)
	}
	for _, status := range updated {
		e.publishHealth(ctx, status)
	}

	return processed
}

// evaluateReadingLocked 对单条读数评估全部适用规则，返回新建的故障
func (e *Engine) evaluateReadingLocked(reading models.SensorReading) []models.DetectedFault {
	var created []models.DetectedFault

	for _, rule := range e.rules.ActiveFor(reading.EntityID) {
		result := evaluator.Evaluate(rule, reading, e.history, e.gate, reading.Timestamp)
		if !result.Satisfied {
			continue
		}

		// 触发一律更新 last_triggered，含被去重抑制的触发
		e.rules.TouchLastTriggered(rule.RuleID, e.now())

		if existing, ok := e.faults.FindActive(rule.RuleID, reading.EntityID); ok {
			e.faults.IncrementRepeat(existing.FaultID)
			metrics.FaultsSuppressed.Inc()
			continue
		}

		fault := e.materializeLocked(rule, reading, result)
		e.faults.Insert(fault)
		created = append(created, fault)

		metrics.FaultsDetected.WithLabelValues(fault.Severity, fault.Category).Inc()
		e.logger.Info("Fault detected",
			zap.String("fault_id", fault.FaultID),
			zap.String("rule_id", rule.RuleID),
			zap.String("entity_id", reading.EntityID),
			zap.String("severity", fault.Severity),
		)
	}

	return created
}

// resolveEntityLocked 解析读数归属实体：显式 entity_id 优先，
// 其次按设备映射，未登记的设备ID直接当作实体ID（模拟器行为）
func (e *Engine) resolveEntityLocked(reading models.SensorReading) string {
	entityID := reading.EntityID
	if entityID == "" {
		if mapped, ok := e.devices[reading.DeviceID]; ok {
			entityID = mapped
		} else {
			entityID = reading.DeviceID
		}
	}
	e.entities[entityID] = struct{}{}
	return entityID
}

// SetConnectivity 设置实体连接状态（offline 健康状态的唯一来源）
// 状态变化立即触发该实体的健康重算
func (e *Engine) SetConnectivity(ctx context.Context, entityID string, online bool) {
	e.mu.Lock()
	e.entities[entityID] = struct{}{}
	if online {
		delete(e.offline, entityID)
	} else {
		e.offline[entityID] = struct{}{}
	}
	status := e.computeHealthLocked(entityID)
	e.health.Replace(status)
	e.mu.Unlock()

	e.publishHealth(ctx, status)
}

// ============================================
// 生命周期 API
// ============================================

// Acknowledge 确认故障（仅 active -> acknowledged，其余状态静默忽略）
func (e *Engine) Acknowledge(faultID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.faults.Acknowledge(faultID, e.now()); err != nil {
		return err
	}
	e.logger.Info("Fault acknowledged", zap.String("fault_id", faultID))
	return nil
}

// Resolve 解决故障并打解决时间戳（已 resolved 的记录严格 no-op）
// 健康评分不在此同步重算，由定时/反应式聚合收敛（文档化的最终一致）
func (e *Engine) Resolve(faultID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	fault, ok := e.faults.Get(faultID)
	if !ok {
		return store.ErrFaultNotFound
	}
	if err := e.faults.Resolve(faultID, e.now()); err != nil {
		return err
	}

	// 清除持续时间闸门，再次越限需重新计满时长
	if rule, ok := e.rules.Get(fault.RuleID); ok {
		e.gate.Clear(rule.RuleID, fault.EntityID, len(rule.Conditions))
	}

	e.logger.Info("Fault resolved", zap.String("fault_id", faultID))
	return nil
}

// ============================================
// 查询接口
// ============================================

// ListFaults 返回全部故障记录
func (e *Engine) ListFaults() []models.DetectedFault {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.faults.List()
}

// GetFault 按ID查询故障
func (e *Engine) GetFault(faultID string) (models.DetectedFault, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.faults.Get(faultID)
}

// ListHealthStatuses 返回全部实体健康状态
func (e *Engine) ListHealthStatuses() []models.ModelHealthStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.health.List()
}

// GetHealthStatus 查询单个实体健康状态
func (e *Engine) GetHealthStatus(entityID string) (models.ModelHealthStatus, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.health.Get(entityID)
}

// Rules 返回当前规则集
func (e *Engine) Rules() []models.FaultRule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules.List()
}

// SubscribeFaults 订阅新建故障，返回退订函数
func (e *Engine) SubscribeFaults(handler notify.FaultHandler) func() {
	return e.fanout.SubscribeFaults(handler)
}

// SubscribeHealth 订阅健康状态更新，返回退订函数
func (e *Engine) SubscribeHealth(handler notify.HealthHandler) func() {
	return e.fanout.SubscribeHealth(handler)
}

// ============================================
// 锁外投递
// ============================================

// publishFault 投递新故障：同步 fan-out + 异步旁路报警
func (e *Engine) publishFault(ctx context.Context, fault models.DetectedFault) {
	e.fanout.PublishFault(fault)

	alert := models.AlertNotification{
		FaultID:     fault.FaultID,
		EntityID:    fault.EntityID,
		Title:       fault.Title,
		Message:     fault.Description,
		Severity:    fault.Severity,
		AutoDismiss: false, // 故障报警不自动消失
		CreatedAt:   fault.DetectedAt,
	}

	// 旁路报警 fire-and-forget，失败只记录日志
	go func() {
		if err := e.alerter.Raise(context.Background(), alert); err != nil {
			metrics.AlertsPublished.WithLabelValues("error").Inc()
			e.logger.Error("Failed to raise alert",
				zap.String("fault_id", fault.FaultID),
				zap.Error(err),
			)
			return
		}
		metrics.AlertsPublished.WithLabelValues("ok").Inc()
	}()
}

// publishHealth 投递健康状态：同步 fan-out + 异步缓存写入
func (e *Engine) publishHealth(ctx context.Context, status models.ModelHealthStatus) {
	e.fanout.PublishHealth(status)

	if e.healthCache == nil {
		return
	}
	go func() {
		if err := e.healthCache.PublishHealth(context.Background(), status); err != nil {
			e.logger.Error("Failed to update health cache",
				zap.String("entity_id", status.EntityID),
				zap.Error(err),
			)
		}
	}()
}
