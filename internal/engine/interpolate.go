package engine

import (
	"math"
	"time"

	"roomclimate/internal/domain"
)

// InterpolatedPoint 网格上单个传感器的插值结果
// Value 仅在该传感器完全没有读数时为 nil
// （只要存在至少一条读数，边界外的网格点也会被平推填充）
type InterpolatedPoint struct {
	Timestamp time.Time
	Value     *float64
}

// Interpolate 将一个传感器的原始读数插值到目标网格
// readings 必须已按时间升序排列（由 Repository 保证）
//
// 每个网格点 t 的取值优先级：
//  1. 存在 timestamp == t 的读数：取其原值
//  2. 前后读数都存在：按秒差做线性插值，保留2位小数
//  3. 只有前值（t 在最后读数之后）：向前平推最后的已知值
//  4. 只有后值（t 在首条读数之前）：向后平推首个已知值
//
// 读数和网格都有序，使用单次双指针扫描（O(n+m)），不对越界 t 报错
func Interpolate(readings []domain.Reading, grid []time.Time) []InterpolatedPoint {
	points := make([]InterpolatedPoint, 0, len(grid))

	if len(readings) == 0 {
		for _, t := range grid {
			points = append(points, InterpolatedPoint{Timestamp: t})
		}
		return points
	}

	i := 0
	for _, t := range grid {
		for i < len(readings) && readings[i].Timestamp.Before(t) {
			i++
		}

		var v float64
		switch {
		case i < len(readings) && readings[i].Timestamp.Equal(t):
			// 精确命中
			v = readings[i].Value
		case i == 0:
			// t 在首条读数之前：平推首值
			v = readings[0].Value
		case i == len(readings):
			// t 在最后读数之后：平推末值
			v = readings[len(readings)-1].Value
		default:
			v = lerp(readings[i-1], readings[i], t)
		}

		val := v
		points = append(points, InterpolatedPoint{Timestamp: t, Value: &val})
	}
	return points
}

// lerp 在相邻两条读数之间做线性插值（比例按秒差计算）
// 退化情形（时间戳相同）回退为前值
func lerp(before, after domain.Reading, t time.Time) float64 {
	span := after.Timestamp.Sub(before.Timestamp).Seconds()
	if span == 0 {
		return before.Value
	}
	ratio := t.Sub(before.Timestamp).Seconds() / span
	return Round2(before.Value + ratio*(after.Value-before.Value))
}

// Round2 保留2位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
