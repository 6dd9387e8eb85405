package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"twinbolt-fault/internal/config"
	"twinbolt-fault/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Ingestor 读数接收方接口（由 engine 实现）
type Ingestor interface {
	// IngestBatch 处理一批读数，返回实际处理条数
	IngestBatch(ctx context.Context, readings []models.SensorReading) int
}

// TelemetryConsumer MQTT 遥测消费者
// 订阅设备遥测主题，解码读数批次后交给引擎处理
type TelemetryConsumer struct {
	config *config.Config
	engine Ingestor
	logger *zap.Logger
	client mqtt.Client
}

// NewTelemetryConsumer 创建遥测消费者
func NewTelemetryConsumer(
	cfg *config.Config,
	engine Ingestor,
	logger *zap.Logger,
) *TelemetryConsumer {
	return &TelemetryConsumer{
		config: cfg,
		engine: engine,
		logger: logger,
	}
}

// Start 连接 MQTT broker 并订阅遥测主题
// 订阅放在 OnConnect 回调里，自动重连后订阅随之恢复
func (c *TelemetryConsumer) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.config.MQTT.Broker)
	opts.SetClientID(c.config.MQTT.ClientID)

	if c.config.MQTT.Username != "" {
		opts.SetUsername(c.config.MQTT.Username)
	}
	if c.config.MQTT.Password != "" {
		opts.SetPassword(c.config.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(c.config.MQTT.Topic, c.config.MQTT.QoS, c.handleMessage)
		if token.Wait() && token.Error() != nil {
			c.logger.Error("Failed to subscribe telemetry topic",
				zap.String("topic", c.config.MQTT.Topic),
				zap.Error(token.Error()),
			)
			return
		}
		c.logger.Info("Subscribed to telemetry topic",
			zap.String("topic", c.config.MQTT.Topic),
		)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	c.client = client

	c.logger.Info("Telemetry consumer started",
		zap.String("broker", c.config.MQTT.Broker),
	)

	return nil
}

// handleMessage 处理一条遥测消息
// 载荷为读数数组；兼容单条读数对象。解码失败丢弃消息并记录日志
func (c *TelemetryConsumer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()

	var batch []models.SensorReading
	if err := json.Unmarshal(payload, &batch); err != nil {
		var single models.SensorReading
		if err := json.Unmarshal(payload, &single); err != nil {
			c.logger.Warn("Dropping undecodable telemetry message",
				zap.String("topic", msg.Topic()),
				zap.Int("payload_size", len(payload)),
			)
			return
		}
		batch = []models.SensorReading{single}
	}

	processed := c.engine.IngestBatch(context.Background(), batch)

	c.logger.Debug("Telemetry batch processed",
		zap.String("topic", msg.Topic()),
		zap.Int("received", len(batch)),
		zap.Int("processed", processed),
	)
}

// Stop 退订并断开 MQTT 连接
func (c *TelemetryConsumer) Stop() {
	if c.client == nil {
		return
	}
	if token := c.client.Unsubscribe(c.config.MQTT.Topic); token.Wait() && token.Error() != nil {
		c.logger.Error("Failed to unsubscribe telemetry topic",
			zap.Error(token.Error()),
		)
	}
	c.client.Disconnect(250)
	c.logger.Info("Telemetry consumer stopped")
}
