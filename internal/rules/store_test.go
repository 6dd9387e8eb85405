package rules

import (
	"testing"
	"time"

	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Detection.Rules.TemperatureCritical = 85
	cfg.Detection.Rules.VibrationHigh = 7.5
	cfg.Detection.Rules.VibrationSustainSec = 60
	cfg.Detection.Rules.SignalLow = 20
	cfg.Detection.Rules.CPUHigh = 90
	cfg.Detection.Rules.MemoryHigh = 90
	return cfg
}

func TestDefaults(t *testing.T) {
	defaults := Defaults(testConfig())
	require.Len(t, defaults, 4)

	byID := make(map[string]models.FaultRule)
	for _, r := range defaults {
		assert.True(t, r.Active)
		assert.Empty(t, r.EntityID) // 默认规则全局生效
		byID[r.RuleID] = r
	}

	temp := byID["rule-temperature-critical"]
	assert.Equal(t, models.SeverityCritical, temp.Severity)
	assert.Equal(t, models.CategoryEnvironmental, temp.Category)
	require.Len(t, temp.Conditions, 1)
	assert.Equal(t, models.OpGreaterThan, temp.Conditions[0].Operator)
	assert.Equal(t, 85.0, temp.Conditions[0].Threshold)

	vib := byID["rule-vibration-high"]
	assert.Equal(t, 60, vib.Conditions[0].DurationSec)

	perf := byID["rule-performance-degradation"]
	assert.Equal(t, models.LogicAll, perf.ConditionLogic())
	assert.Len(t, perf.Conditions, 2)
}

func TestStore_ActiveFor_ScopeFiltering(t *testing.T) {
	s := NewStore()
	s.Upsert(models.FaultRule{RuleID: "global", Active: true})
	s.Upsert(models.FaultRule{RuleID: "scoped-e1", EntityID: "E1", Active: true})
	s.Upsert(models.FaultRule{RuleID: "inactive", Active: false})

	forE1 := s.ActiveFor("E1")
	ids := make([]string, 0, len(forE1))
	for _, r := range forE1 {
		ids = append(ids, r.RuleID)
	}
	assert.Equal(t, []string{"global", "scoped-e1"}, ids)

	forE2 := s.ActiveFor("E2")
	require.Len(t, forE2, 1)
	assert.Equal(t, "global", forE2[0].RuleID)
}

func TestStore_SetActive(t *testing.T) {
	s := NewStore()
	s.Upsert(models.FaultRule{RuleID: "r1", Active: true})

	assert.True(t, s.SetActive("r1", false))
	assert.Empty(t, s.ActiveFor("E1"))

	assert.False(t, s.SetActive("missing", true))
}

func TestStore_TouchLastTriggered(t *testing.T) {
	s := NewStore()
	s.Upsert(models.FaultRule{RuleID: "r1", Active: true})

	r, ok := s.Get("r1")
	require.True(t, ok)
	assert.Nil(t, r.LastTriggered)

	at := time.Unix(1700000000, 0)
	s.TouchLastTriggered("r1", at)

	r, ok = s.Get("r1")
	require.True(t, ok)
	require.NotNil(t, r.LastTriggered)
	assert.Equal(t, at, *r.LastTriggered)

	// 未知规则不 panic
	s.TouchLastTriggered("missing", at)
}

func TestStore_UpsertReplaces(t *testing.T) {
	s := NewStore()
	s.Upsert(models.FaultRule{RuleID: "r1", Name: "old", Active: true})
	s.Upsert(models.FaultRule{RuleID: "r1", Name: "new", Active: true})

	require.Len(t, s.List(), 1)
	r, _ := s.Get("r1")
	assert.Equal(t, "new", r.Name)
}
