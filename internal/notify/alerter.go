package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"twinbolt-fault/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Alerter 面向用户的报警旁路通道
// 投递失败只记录日志，不回传到处理管线
type Alerter interface {
	Raise(ctx context.Context, alert models.AlertNotification) error
}

// RedisAlerter 将报警通知写入 Redis Streams，供通知网关消费
type RedisAlerter struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewRedisAlerter 创建 Redis 报警通道
func NewRedisAlerter(client *redis.Client, stream string, logger *zap.Logger) *RedisAlerter {
	return &RedisAlerter{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Raise 发布一条报警通知（XADD）
func (a *RedisAlerter) Raise(ctx context.Context, alert models.AlertNotification) error {
	jsonData, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	err = a.client.XAdd(ctx, &redis.XAddArgs{
		Stream: a.stream,
		Values: map[string]interface{}{
			"data":      string(jsonData),
			"timestamp": alert.CreatedAt.Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	a.logger.Debug("Alert published",
		zap.String("fault_id", alert.FaultID),
		zap.String("severity", alert.Severity),
		zap.String("stream", a.stream),
	)

	return nil
}

// NopAlerter 空实现（测试或未配置 Redis 时使用）
type NopAlerter struct{}

// Raise 丢弃报警
func (NopAlerter) Raise(ctx context.Context, alert models.AlertNotification) error {
	return nil
}
