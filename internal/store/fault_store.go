package store

import (
	"errors"
	"time"

	"twinbolt-fault/internal/models"
)

// ErrFaultNotFound 生命周期操作目标故障不存在
var ErrFaultNotFound = errors.New("fault not found")

// FaultStore 故障记录存储（内存态，记录只增不删）
// 非并发安全：调用方（engine）持有统一互斥域串行化所有访问
type FaultStore struct {
	faults map[string]*models.DetectedFault
	order  []string // 按创建顺序遍历
}

// NewFaultStore 创建故障存储
func NewFaultStore() *FaultStore {
	return &FaultStore{
		faults: make(map[string]*models.DetectedFault),
	}
}

// Insert 写入新故障记录
func (s *FaultStore) Insert(fault models.DetectedFault) {
	f := fault
	s.faults[fault.FaultID] = &f
	s.order = append(s.order, fault.FaultID)
}

// Get 按ID查询故障
func (s *FaultStore) Get(faultID string) (models.DetectedFault, bool) {
	f, ok := s.faults[faultID]
	if !ok {
		return models.DetectedFault{}, false
	}
	return *f, true
}

// List 返回全部故障（创建顺序）
func (s *FaultStore) List() []models.DetectedFault {
	out := make([]models.DetectedFault, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.faults[id])
	}
	return out
}

// FindActive 查找 (rule, entity) 当前处于 active 状态的故障
// 去重只在 active 期间生效：acknowledged/resolved 后允许产生新故障
func (s *FaultStore) FindActive(ruleID, entityID string) (models.DetectedFault, bool) {
	for _, id := range s.order {
		f := s.faults[id]
		if f.RuleID == ruleID && f.EntityID == entityID && f.Status == models.FaultStatusActive {
			return *f, true
		}
	}
	return models.DetectedFault{}, false
}

// ActiveByEntity 返回实体当前全部 active 故障
func (s *FaultStore) ActiveByEntity(entityID string) []models.DetectedFault {
	var out []models.DetectedFault
	for _, id := range s.order {
		f := s.faults[id]
		if f.EntityID == entityID && f.Status == models.FaultStatusActive {
			out = append(out, *f)
		}
	}
	return out
}

// IncrementRepeat 去重抑制时累加重复触发计数
func (s *FaultStore) IncrementRepeat(faultID string) {
	if f, ok := s.faults[faultID]; ok {
		f.RepeatCount++
	}
}

// Acknowledge 确认故障：仅 active -> acknowledged
// 状态不符时静默忽略（不回退已 resolved 的记录）
func (s *FaultStore) Acknowledge(faultID string, at time.Time) error {
	f, ok := s.faults[faultID]
	if !ok {
		return ErrFaultNotFound
	}
	if f.Status != models.FaultStatusActive {
		return nil
	}
	f.Status = models.FaultStatusAcknowledged
	t := at
	f.AcknowledgedAt = &t
	return nil
}

// Resolve 解决故障：active 或 acknowledged -> resolved，并打上解决时间戳
// 已 resolved 的记录严格 no-op（保留原始解决时间）
func (s *FaultStore) Resolve(faultID string, at time.Time) error {
	f, ok := s.faults[faultID]
	if !ok {
		return ErrFaultNotFound
	}
	if f.Status != models.FaultStatusActive && f.Status != models.FaultStatusAcknowledged {
		return nil
	}
	f.Status = models.FaultStatusResolved
	t := at
	f.ResolvedAt = &t
	return nil
}
