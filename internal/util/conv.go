package util

import (
	"math"
	"strconv"
)

// ParseIntDefault 将字符串转换为整数，解析失败或为空时返回默认值
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// CalculateAccuracy 正确率百分比（四舍五入），total 为 0 时返回 0
func CalculateAccuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
