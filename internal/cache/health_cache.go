package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HealthCache Redis 健康状态缓存
// 每次聚合后把实体最新健康快照（含 active 故障列表）写入带 TTL 的键，
// 供可视化层低成本轮询；写入失败只记录日志
type HealthCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewHealthCache 创建健康状态缓存
func NewHealthCache(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *HealthCache {
	return &HealthCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// key 构建缓存键
func (c *HealthCache) key(entityID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Cache.HealthKeyPrefix,
		entityID,
		c.config.Cache.HealthSuffix,
	)
}

// PublishHealth 写入实体健康快照（带 TTL）
func (c *HealthCache) PublishHealth(ctx context.Context, status models.ModelHealthStatus) error {
	jsonData, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal health status: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		c.key(status.EntityID),
		jsonData,
		time.Duration(c.config.Cache.HealthTTL)*time.Second,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set health cache: %w", err)
	}

	c.logger.Debug("Updated health cache",
		zap.String("entity_id", status.EntityID),
		zap.String("overall_health", status.OverallHealth),
		zap.Int("health_score", status.HealthScore),
	)

	return nil
}

// GetHealth 读取实体健康快照（缓存过期或不存在时返回 false）
func (c *HealthCache) GetHealth(ctx context.Context, entityID string) (models.ModelHealthStatus, bool, error) {
	val, err := c.redisClient.Get(ctx, c.key(entityID)).Result()
	if err != nil {
		if err == redis.Nil {
			return models.ModelHealthStatus{}, false, nil
		}
		return models.ModelHealthStatus{}, false, fmt.Errorf("failed to get health cache: %w", err)
	}

	var status models.ModelHealthStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return models.ModelHealthStatus{}, false, fmt.Errorf("failed to unmarshal health status: %w", err)
	}

	return status, true, nil
}
