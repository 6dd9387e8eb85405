package history

import (
	"fmt"
	"testing"
	"time"

	"twinbolt-fault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReading(entityID string, value float64, offset int) models.SensorReading {
	return models.SensorReading{
		DeviceID:   "dev-1",
		EntityID:   entityID,
		SensorType: models.SensorTemperature,
		Value:      value,
		Unit:       "°C",
		Timestamp:  time.Unix(int64(1700000000+offset), 0),
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := NewStore(10)

	for i := 0; i < 5; i++ {
		s.Record("E1", makeReading("E1", float64(i), i))
	}

	recent := s.Recent("E1", 3)
	require.Len(t, recent, 3)
	// 时间先后顺序，早的在前
	assert.Equal(t, 2.0, recent[0].Value)
	assert.Equal(t, 3.0, recent[1].Value)
	assert.Equal(t, 4.0, recent[2].Value)
}

func TestStore_CapacityBound(t *testing.T) {
	capacity := 10
	k := 7
	s := NewStore(capacity)

	for i := 0; i < capacity+k; i++ {
		s.Record("E1", makeReading("E1", float64(i), i))
	}

	// 超容量后长度锁定为 cap，返回最近 cap 条
	assert.Equal(t, capacity, s.Len("E1"))

	recent := s.Recent("E1", capacity+k)
	require.Len(t, recent, capacity)
	assert.Equal(t, float64(k), recent[0].Value)
	assert.Equal(t, float64(capacity+k-1), recent[len(recent)-1].Value)

	// 严格时间顺序
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i].Timestamp.After(recent[i-1].Timestamp))
	}
}

func TestStore_UnknownEntity(t *testing.T) {
	s := NewStore(10)

	assert.Empty(t, s.Recent("unknown", 5))
	assert.Equal(t, 0, s.Len("unknown"))

	_, ok := s.Latest("unknown", models.SensorTemperature)
	assert.False(t, ok)
}

func TestStore_Latest(t *testing.T) {
	s := NewStore(10)

	s.Record("E1", makeReading("E1", 10, 0))
	s.Record("E1", models.SensorReading{
		EntityID:   "E1",
		SensorType: models.SensorVibration,
		Value:      3.3,
		Timestamp:  time.Unix(1700000001, 0),
	})
	s.Record("E1", makeReading("E1", 20, 2))

	latest, ok := s.Latest("E1", models.SensorTemperature)
	require.True(t, ok)
	assert.Equal(t, 20.0, latest.Value)

	vib, ok := s.Latest("E1", models.SensorVibration)
	require.True(t, ok)
	assert.Equal(t, 3.3, vib.Value)

	_, ok = s.Latest("E1", models.SensorHumidity)
	assert.False(t, ok)
}

func TestStore_IsolationBetweenEntities(t *testing.T) {
	s := NewStore(10)

	for i := 0; i < 3; i++ {
		s.Record("E1", makeReading("E1", float64(i), i))
	}
	s.Record("E2", makeReading("E2", 99, 0))

	assert.Equal(t, 3, s.Len("E1"))
	assert.Equal(t, 1, s.Len("E2"))
	assert.ElementsMatch(t, []string{"E1", "E2"}, s.Entities())
}

func TestStore_WrapAroundOrder(t *testing.T) {
	// 多轮覆盖后顺序仍然正确
	s := NewStore(4)
	for i := 0; i < 11; i++ {
		s.Record("E1", makeReading("E1", float64(i), i))
	}

	recent := s.Recent("E1", 4)
	require.Len(t, recent, 4)
	for i, want := range []float64{7, 8, 9, 10} {
		assert.Equal(t, want, recent[i].Value, fmt.Sprintf("index %d", i))
	}
}
