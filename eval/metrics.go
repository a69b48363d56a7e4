package eval

import "math"

// PrecisionAtK 计算 Precision@K：前 K 条推荐中相关商品的占比。
// 分母固定为 K，推荐不足 K 条时缺口按不相关计。
func PrecisionAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hitsAtK(recommended, relevant, k)) / float64(k)
}

// RecallAtK 计算 Recall@K：相关商品中被前 K 条推荐覆盖的占比。
// relevant 为空时返回 0。
func RecallAtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hitsAtK(recommended, relevant, k)) / float64(len(relevant))
}

// F1AtK 计算 Precision@K 与 Recall@K 的调和平均；两者皆 0 时返回 0。
func F1AtK(recommended []int64, relevant map[int64]struct{}, k int) float64 {
	p := PrecisionAtK(recommended, relevant, k)
	r := RecallAtK(recommended, relevant, k)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func hitsAtK(recommended []int64, relevant map[int64]struct{}, k int) int {
	if k > len(recommended) {
		k = len(recommended)
	}
	hits := 0
	for _, id := range recommended[:k] {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return hits
}

// RMSE 计算均方根误差。两个切片按下标对齐，空输入返回 0。
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// MAE 计算平均绝对误差。
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}
