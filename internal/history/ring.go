package history

import (
	"twinbolt-fault/internal/models"
)

// Store 每实体有界历史缓冲（严格 FIFO，超容量时淘汰最旧读数）
// 非并发安全：调用方（engine）持有统一互斥域串行化所有访问
type Store struct {
	capacity int
	buffers  map[string]*ringBuffer
}

// ringBuffer 单实体环形缓冲
type ringBuffer struct {
	entries []models.SensorReading
	head    int // 下一个写入位置
	full    bool
}

// NewStore 创建历史缓冲存储
// capacity <= 0 时使用 1（保证 Record 永不越界）
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		buffers:  make(map[string]*ringBuffer),
	}
}

// Record 追加一条读数到实体缓冲
func (s *Store) Record(entityID string, reading models.SensorReading) {
	buf, ok := s.buffers[entityID]
	if !ok {
		buf = &ringBuffer{entries: make([]models.SensorReading, s.capacity)}
		s.buffers[entityID] = buf
	}
	buf.entries[buf.head] = reading
	buf.head = (buf.head + 1) % s.capacity
	if buf.head == 0 {
		buf.full = true
	}
}

// Recent 返回实体最近 n 条读数（时间先后顺序，早的在前）
// 未知实体返回空切片；n 大于缓冲长度时返回全部
func (s *Store) Recent(entityID string, n int) []models.SensorReading {
	buf, ok := s.buffers[entityID]
	if !ok || n <= 0 {
		return nil
	}

	length := buf.head
	if buf.full {
		length = s.capacity
	}
	if n > length {
		n = length
	}

	out := make([]models.SensorReading, 0, n)
	// 从最旧的需要返回的位置开始顺序读取
	start := buf.head - n
	if start < 0 {
		start += s.capacity
	}
	for i := 0; i < n; i++ {
		out = append(out, buf.entries[(start+i)%s.capacity])
	}
	return out
}

// Len 返回实体当前缓冲长度
func (s *Store) Len(entityID string) int {
	buf, ok := s.buffers[entityID]
	if !ok {
		return 0
	}
	if buf.full {
		return s.capacity
	}
	return buf.head
}

// Latest 返回实体指定参数的最新读数
func (s *Store) Latest(entityID, sensorType string) (models.SensorReading, bool) {
	buf, ok := s.buffers[entityID]
	if !ok {
		return models.SensorReading{}, false
	}
	length := buf.head
	if buf.full {
		length = s.capacity
	}
	// 从最新往回找
	for i := 1; i <= length; i++ {
		idx := buf.head - i
		if idx < 0 {
			idx += s.capacity
		}
		if buf.entries[idx].SensorType == sensorType {
			return buf.entries[idx], true
		}
	}
	return models.SensorReading{}, false
}

// Entities 返回所有出现过读数的实体ID
func (s *Store) Entities() []string {
	ids := make([]string, 0, len(s.buffers))
	for id := range s.buffers {
		ids = append(ids, id)
	}
	return ids
}
