package engine

import "time"

// SeriesPoint 跨传感器聚合后的单个网格点
type SeriesPoint struct {
	Timestamp time.Time
	Value     float64
}

// Aggregate 在每个网格点上对所有传感器的插值结果取平均
// perSource 按 source_address 索引，每个序列与 grid 等长（Interpolate 的输出）
// 某网格点上所有传感器都为 nil 时，该点直接从结果中省略（稀疏序列）
func Aggregate(perSource map[string][]InterpolatedPoint, grid []time.Time) []SeriesPoint {
	series := make([]SeriesPoint, 0, len(grid))

	for idx, t := range grid {
		var sum float64
		var count int
		for _, points := range perSource {
			if idx >= len(points) || points[idx].Value == nil {
				continue
			}
			sum += *points[idx].Value
			count++
		}
		if count == 0 {
			continue
		}
		series = append(series, SeriesPoint{
			Timestamp: t,
			Value:     Round2(sum / float64(count)),
		})
	}
	return series
}

// Summarize 计算原始值集合的统计摘要（min/max/平均值，平均值保留2位小数）
// values 不能为空（零读数的指标在管道更上游就被判定为缺失）
func Summarize(values []float64) (min, max, avg float64) {
	min, max = values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, Round2(sum / float64(len(values)))
}
