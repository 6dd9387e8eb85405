package notify

import (
	"sync"

	"twinbolt-fault/internal/models"

	"go.uber.org/zap"
)

// FaultHandler 故障订阅回调
type FaultHandler func(fault models.DetectedFault)

// HealthHandler 健康状态订阅回调
type HealthHandler func(status models.ModelHealthStatus)

type faultSubscription struct {
	id      int
	handler FaultHandler
}

type healthSubscription struct {
	id      int
	handler HealthHandler
}

// Fanout 通知分发器
// 故障与健康状态两条独立订阅列表；按注册顺序同步投递，
// 回调 panic 被捕获记录日志，不影响其余订阅者
type Fanout struct {
	mu         sync.Mutex
	nextID     int
	faultSubs  []faultSubscription
	healthSubs []healthSubscription
	logger     *zap.Logger
}

// NewFanout 创建通知分发器
func NewFanout(logger *zap.Logger) *Fanout {
	return &Fanout{
		logger: logger,
	}
}

// SubscribeFaults 订阅新故障，返回退订函数（精确移除本次注册的句柄）
func (f *Fanout) SubscribeFaults(handler FaultHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.faultSubs = append(f.faultSubs, faultSubscription{id: id, handler: handler})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.faultSubs {
			if sub.id == id {
				f.faultSubs = append(f.faultSubs[:i], f.faultSubs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeHealth 订阅健康状态更新，返回退订函数
func (f *Fanout) SubscribeHealth(handler HealthHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.healthSubs = append(f.healthSubs, healthSubscription{id: id, handler: handler})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.healthSubs {
			if sub.id == id {
				f.healthSubs = append(f.healthSubs[:i], f.healthSubs[i+1:]...)
				return
			}
		}
	}
}

// PublishFault 向所有故障订阅者同步投递（注册顺序）
func (f *Fanout) PublishFault(fault models.DetectedFault) {
	f.mu.Lock()
	subs := make([]faultSubscription, len(f.faultSubs))
	copy(subs, f.faultSubs)
	f.mu.Unlock()

	for _, sub := range subs {
		f.deliverFault(sub, fault)
	}
}

// PublishHealth 向所有健康状态订阅者同步投递（注册顺序）
func (f *Fanout) PublishHealth(status models.ModelHealthStatus) {
	f.mu.Lock()
	subs := make([]healthSubscription, len(f.healthSubs))
	copy(subs, f.healthSubs)
	f.mu.Unlock()

	for _, sub := range subs {
		f.deliverHealth(sub, status)
	}
}

func (f *Fanout) deliverFault(sub faultSubscription, fault models.DetectedFault) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Fault subscriber panicked",
				zap.Int("subscriber_id", sub.id),
				zap.String("fault_id", fault.FaultID),
				zap.Any("panic", r),
			)
		}
	}()
	sub.handler(fault)
}

func (f *Fanout) deliverHealth(sub healthSubscription, status models.ModelHealthStatus) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Health subscriber panicked",
				zap.Int("subscriber_id", sub.id),
				zap.String("entity_id", status.EntityID),
				zap.Any("panic", r),
			)
		}
	}()
	sub.handler(status)
}
