package store

import (
	"twinbolt-fault/internal/models"
)

// HealthStore 实体健康状态存储（内存态）
// 每次聚合整体替换记录，从不独立修改字段
// 非并发安全：调用方（engine）持有统一互斥域串行化所有访问
type HealthStore struct {
	statuses map[string]models.ModelHealthStatus
}

// NewHealthStore 创建健康状态存储
func NewHealthStore() *HealthStore {
	return &HealthStore{
		statuses: make(map[string]models.ModelHealthStatus),
	}
}

// Replace 整体替换实体健康状态
func (s *HealthStore) Replace(status models.ModelHealthStatus) {
	s.statuses[status.EntityID] = status
}

// Get 查询实体健康状态
func (s *HealthStore) Get(entityID string) (models.ModelHealthStatus, bool) {
	st, ok := s.statuses[entityID]
	return st, ok
}

// List 返回全部实体健康状态
func (s *HealthStore) List() []models.ModelHealthStatus {
	out := make([]models.ModelHealthStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	return out
}
