package domain

import "time"

// Metric 指标类型（每种指标对应一个独立的时序数据流）
type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricPressure    Metric = "pressure"
)

// Metrics 返回所有指标（固定顺序，决定管道执行与输出顺序）
func Metrics() []Metric {
	return []Metric{MetricTemperature, MetricHumidity, MetricPressure}
}

// Reading 单条原始观测值（一个传感器在一个时刻对一种指标的采样）
// 获取后不可变，仅在单次请求的管道内使用
type Reading struct {
	SourceAddress string    `db:"source_address"`
	Timestamp     time.Time `db:"recorded_at"`
	Value         float64   `db:"value"`
}
