package store

import (
	"testing"
	"time"

	"twinbolt-fault/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFault(ruleID, entityID string) models.DetectedFault {
	return models.DetectedFault{
		FaultID:    uuid.New().String(),
		RuleID:     ruleID,
		EntityID:   entityID,
		Severity:   models.SeverityHigh,
		Category:   models.CategoryStructural,
		Status:     models.FaultStatusActive,
		DetectedAt: time.Unix(1700000000, 0),
	}
}

func TestFaultStore_InsertAndGet(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	got, ok := s.Get(f.FaultID)
	require.True(t, ok)
	assert.Equal(t, f.FaultID, got.FaultID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestFaultStore_FindActive(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	found, ok := s.FindActive("r1", "E1")
	require.True(t, ok)
	assert.Equal(t, f.FaultID, found.FaultID)

	// 不同实体或规则不命中
	_, ok = s.FindActive("r1", "E2")
	assert.False(t, ok)
	_, ok = s.FindActive("r2", "E1")
	assert.False(t, ok)

	// resolved 后不再计入去重
	require.NoError(t, s.Resolve(f.FaultID, time.Unix(1700000100, 0)))
	_, ok = s.FindActive("r1", "E1")
	assert.False(t, ok)
}

// ============================================
// 生命周期状态转换测试
// ============================================

func TestFaultStore_Acknowledge(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	at := time.Unix(1700000100, 0)
	require.NoError(t, s.Acknowledge(f.FaultID, at))

	got, _ := s.Get(f.FaultID)
	assert.Equal(t, models.FaultStatusAcknowledged, got.Status)
	require.NotNil(t, got.AcknowledgedAt)
	assert.Equal(t, at, *got.AcknowledgedAt)
}

func TestFaultStore_Acknowledge_NotFound(t *testing.T) {
	s := NewFaultStore()
	assert.ErrorIs(t, s.Acknowledge("missing", time.Now()), ErrFaultNotFound)
}

func TestFaultStore_Acknowledge_DoesNotRegressResolved(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	resolvedAt := time.Unix(1700000100, 0)
	require.NoError(t, s.Resolve(f.FaultID, resolvedAt))

	// acknowledged 不得回退已 resolved 的记录
	require.NoError(t, s.Acknowledge(f.FaultID, time.Unix(1700000200, 0)))

	got, _ := s.Get(f.FaultID)
	assert.Equal(t, models.FaultStatusResolved, got.Status)
	assert.Nil(t, got.AcknowledgedAt)
}

func TestFaultStore_Resolve_FromActiveAndAcknowledged(t *testing.T) {
	s := NewFaultStore()

	f1 := newFault("r1", "E1")
	s.Insert(f1)
	require.NoError(t, s.Resolve(f1.FaultID, time.Unix(1700000100, 0)))
	got, _ := s.Get(f1.FaultID)
	assert.Equal(t, models.FaultStatusResolved, got.Status)

	f2 := newFault("r1", "E2")
	s.Insert(f2)
	require.NoError(t, s.Acknowledge(f2.FaultID, time.Unix(1700000100, 0)))
	require.NoError(t, s.Resolve(f2.FaultID, time.Unix(1700000200, 0)))
	got, _ = s.Get(f2.FaultID)
	assert.Equal(t, models.FaultStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)
}

func TestFaultStore_Resolve_AlreadyResolvedIsNoOp(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	first := time.Unix(1700000100, 0)
	require.NoError(t, s.Resolve(f.FaultID, first))

	// 重复 resolve 严格 no-op，保留原始解决时间
	require.NoError(t, s.Resolve(f.FaultID, time.Unix(1700000999, 0)))

	got, _ := s.Get(f.FaultID)
	require.NotNil(t, got.ResolvedAt)
	assert.Equal(t, first, *got.ResolvedAt)
}

func TestFaultStore_ActiveByEntity(t *testing.T) {
	s := NewFaultStore()
	f1 := newFault("r1", "E1")
	f2 := newFault("r2", "E1")
	f3 := newFault("r1", "E2")
	s.Insert(f1)
	s.Insert(f2)
	s.Insert(f3)

	require.NoError(t, s.Resolve(f2.FaultID, time.Now()))

	active := s.ActiveByEntity("E1")
	require.Len(t, active, 1)
	assert.Equal(t, f1.FaultID, active[0].FaultID)
}

func TestFaultStore_IncrementRepeat(t *testing.T) {
	s := NewFaultStore()
	f := newFault("r1", "E1")
	s.Insert(f)

	s.IncrementRepeat(f.FaultID)
	s.IncrementRepeat(f.FaultID)

	got, _ := s.Get(f.FaultID)
	assert.Equal(t, 2, got.RepeatCount)
}
