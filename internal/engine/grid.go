package engine

import (
	"errors"
	"time"
)

// ErrInvalidInterval 重采样间隔非法（<= 0）
var ErrInvalidInterval = errors.New("invalid smoothing interval")

const (
	// DefaultIntervalMinutes 默认重采样间隔（分钟）
	DefaultIntervalMinutes = 30
	// MaxIntervalMinutes 重采样间隔上限（一天）
	MaxIntervalMinutes = 1440
)

// ClampInterval 将调用方提供的间隔收敛到 [1, max]
// <= 0 时取 fallback，> max 时取 max，其余原样返回
// 越界值静默收敛而不是报错（边界层不向调用方暴露该错误）
func ClampInterval(minutes, fallback, max int) int {
	if minutes <= 0 {
		return fallback
	}
	if minutes > max {
		return max
	}
	return minutes
}

// BuildGrid 构建重采样目标时间网格
// 对齐规则：
//  1. 将 earliest 的分钟数向下取整到 intervalMinutes 的整数倍，秒和纳秒清零
//  2. 第一个网格点 = 取整结果 + 一个完整间隔（即使 earliest 本来就对齐）
//  3. 之后按间隔步进，只保留 <= latest 的时刻
//
// earliest > latest 或任一边界为零值时返回空网格（下游将该指标视为缺失）
func BuildGrid(earliest, latest time.Time, intervalMinutes int) ([]time.Time, error) {
	if intervalMinutes <= 0 {
		return nil, ErrInvalidInterval
	}
	if earliest.IsZero() || latest.IsZero() || earliest.After(latest) {
		return nil, nil
	}

	minute := earliest.Minute() - earliest.Minute()%intervalMinutes
	floored := time.Date(
		earliest.Year(), earliest.Month(), earliest.Day(),
		earliest.Hour(), minute, 0, 0,
		earliest.Location(),
	)

	step := time.Duration(intervalMinutes) * time.Minute
	var grid []time.Time
	for t := floored.Add(step); !t.After(latest); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid, nil
}
