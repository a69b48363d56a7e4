// Package norm 提供按用户的评分归一化，用于消除用户间的打分偏置：
// 有人习惯给 4-5 星（宽松型），有人只给 1-3 星（严格型），
// 直接比较原始评分会把偏置当成偏好。
package norm

import (
	"fmt"
	"math"

	"github.com/rushteam/ratekit/core"
)

// 归一化方法名。未知方法返回 INVALID_METHOD。
const (
	MethodMeanCenter = "mean_center" // new = old - mean
	MethodZScore     = "z_score"     // new = (old - mean) / std；std 为 0 时取 0
	MethodMinMax     = "min_max"     // new = (old - min) / (max - min)；max == min 时取 0.5
)

// Stats 是单个用户的评分统计量。
type Stats struct {
	Mean  float64
	Std   float64 // 总体标准差
	Min   float64
	Max   float64
	Count int
}

// UserStats 计算每个用户的评分统计量。
func UserStats(table core.RatingTable) map[int64]Stats {
	sum := make(map[int64]float64)
	sumSq := make(map[int64]float64)
	stats := make(map[int64]Stats)

	for _, e := range table {
		st, ok := stats[e.UserID]
		if !ok {
			st = Stats{Min: e.Rating, Max: e.Rating}
		}
		if e.Rating < st.Min {
			st.Min = e.Rating
		}
		if e.Rating > st.Max {
			st.Max = e.Rating
		}
		st.Count++
		stats[e.UserID] = st
		sum[e.UserID] += e.Rating
		sumSq[e.UserID] += e.Rating * e.Rating
	}

	for u, st := range stats {
		n := float64(st.Count)
		st.Mean = sum[u] / n
		variance := sumSq[u]/n - st.Mean*st.Mean
		if variance > 0 {
			st.Std = math.Sqrt(variance)
		}
		stats[u] = st
	}
	return stats
}

// Normalize 返回替换了评分字段的新表，其余字段保持不变；输入表不被修改。
// 纯函数：同一输入永远得到同一输出。
func Normalize(table core.RatingTable, method string) (core.RatingTable, error) {
	switch method {
	case MethodMeanCenter, MethodZScore, MethodMinMax:
	default:
		return nil, core.NewDomainError(core.ModuleNorm, core.ErrorCodeInvalidMethod,
			fmt.Sprintf("norm: unknown method %q", method))
	}

	stats := UserStats(table)
	out := make(core.RatingTable, len(table))
	for i, e := range table {
		st := stats[e.UserID]
		ne := e
		switch method {
		case MethodMeanCenter:
			ne.Rating = e.Rating - st.Mean
		case MethodZScore:
			if st.Std == 0 {
				ne.Rating = 0
			} else {
				ne.Rating = (e.Rating - st.Mean) / st.Std
			}
		case MethodMinMax:
			if st.Max == st.Min {
				ne.Rating = 0.5
			} else {
				ne.Rating = (e.Rating - st.Min) / (st.Max - st.Min)
			}
		}
		out[i] = ne
	}
	return out, nil
}

// Denormalize 将归一化尺度上的值换算回该用户的原始评分尺度。
// min_max 在 max == min 时不可逆，返回该用户的唯一评分值。
func Denormalize(value float64, st Stats, method string) float64 {
	switch method {
	case MethodMeanCenter:
		return value + st.Mean
	case MethodZScore:
		return value*st.Std + st.Mean
	case MethodMinMax:
		if st.Max == st.Min {
			return st.Min
		}
		return value*(st.Max-st.Min) + st.Min
	default:
		return value
	}
}
