package models

import (
	"time"
)

// 传感器类型（与数字孪生前端保持一致）
const (
	SensorTemperature    = "temperature"
	SensorHumidity       = "humidity"
	SensorPressure       = "pressure"
	SensorVibration      = "vibration"
	SensorFlow           = "flow"
	SensorPower          = "power"
	SensorSignalStrength = "signal_strength"
	SensorCPUUsage       = "cpu_usage"
	SensorMemoryUsage    = "memory_usage"
)

// 读数状态标签（由设备端本地计算）
const (
	ReadingStatusNormal   = "normal"
	ReadingStatusWarning  = "warning"
	ReadingStatusCritical = "critical"
)

// GeoLocation 地理位置
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// SensorReading 单条传感器读数（不可变，进入环形缓冲后不再修改）
type SensorReading struct {
	DeviceID   string       `json:"device_id"`
	EntityID   string       `json:"entity_id,omitempty"` // 所属模型实体，缺省时由 device 映射解析
	SensorType string       `json:"sensor_type"`
	Value      float64      `json:"value"`
	Unit       string       `json:"unit"`
	Timestamp  time.Time    `json:"timestamp"`
	Location   *GeoLocation `json:"location,omitempty"`
	Status     string       `json:"status,omitempty"` // normal, warning, critical
}

// Valid 检查读数是否包含必要字段（不合法的读数跳过，不中断批处理）
func (r *SensorReading) Valid() bool {
	if r.SensorType == "" {
		return false
	}
	if r.EntityID == "" && r.DeviceID == "" {
		return false
	}
	return true
}
