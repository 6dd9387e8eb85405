package evaluator

import (
	"fmt"
	"time"
)

// Gate 持续时间闸门
// 按 (rule, entity, condition) 记录首次越限时间；带最小持续时间要求的条件
// 只有在越限持续满所需时长后才算满足，期间收到合规读数则清除记录重新计时
type Gate struct {
	firstViolation map[string]time.Time
}

// NewGate 创建持续时间闸门
func NewGate() *Gate {
	return &Gate{
		firstViolation: make(map[string]time.Time),
	}
}

func gateKey(ruleID, entityID string, condIdx int) string {
	return fmt.Sprintf("%s:%s:%d", ruleID, entityID, condIdx)
}

// Observe 记录一次条件观测结果，返回该条件当前是否算满足
// violating=false 时清除首次越限记录（恢复即复位）
func (g *Gate) Observe(ruleID, entityID string, condIdx int, violating bool, durationSec int, at time.Time) bool {
	key := gateKey(ruleID, entityID, condIdx)

	if !violating {
		delete(g.firstViolation, key)
		return false
	}

	if durationSec <= 0 {
		// 无持续时间要求，立即满足
		delete(g.firstViolation, key)
		return true
	}

	first, ok := g.firstViolation[key]
	if !ok {
		g.firstViolation[key] = at
		return false
	}
	return at.Sub(first) >= time.Duration(durationSec)*time.Second
}

// Sustained 只读检查：该条件的越限是否已持续满所需时长
// 用于 all 逻辑下检查非本次读数参数的条件
func (g *Gate) Sustained(ruleID, entityID string, condIdx int, durationSec int, at time.Time) bool {
	if durationSec <= 0 {
		return true
	}
	first, ok := g.firstViolation[gateKey(ruleID, entityID, condIdx)]
	if !ok {
		return false
	}
	return at.Sub(first) >= time.Duration(durationSec)*time.Second
}

// Clear 清除某实体某规则的所有闸门状态（故障解决后重新计时用）
func (g *Gate) Clear(ruleID, entityID string, condCount int) {
	for i := 0; i < condCount; i++ {
		delete(g.firstViolation, gateKey(ruleID, entityID, i))
	}
}
