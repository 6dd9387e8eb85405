package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"twinbolt-fault/internal/cache"
	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/consumer"
	"twinbolt-fault/internal/engine"
	"twinbolt-fault/internal/logger"
	"twinbolt-fault/internal/notify"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "twinbolt-fault")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 连接 Redis（健康缓存和报警旁路通道）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping redis", zap.Error(err))
	}

	// 4. 组装引擎
	fanout := notify.NewFanout(log)
	alerter := notify.NewRedisAlerter(redisClient, cfg.Cache.AlertStream, log)
	healthCache := cache.NewHealthCache(cfg, redisClient, log)
	eng := engine.NewEngine(cfg, fanout, alerter, healthCache, log)

	// 5. 暴露 Prometheus 指标
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Metrics.Addr, nil); err != nil {
			log.Error("Metrics endpoint stopped", zap.Error(err))
		}
	}()

	// 6. 启动健康聚合循环
	go func() {
		if err := eng.Run(ctx); err != nil {
			log.Error("Aggregation loop exited", zap.Error(err))
		}
	}()

	// 7. 启动遥测消费者
	telemetry := consumer.NewTelemetryConsumer(cfg, eng, log)
	if err := telemetry.Start(ctx); err != nil {
		log.Fatal("Failed to start telemetry consumer", zap.Error(err))
	}

	log.Info("twinbolt-fault started",
		zap.String("mqtt_broker", cfg.MQTT.Broker),
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.String("metrics_addr", cfg.Metrics.Addr),
	)

	// 8. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Shutting down", zap.String("signal", sig.String()))

	cancel()
	telemetry.Stop()

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close redis", zap.Error(err))
	}
}
