package eval

import (
	"context"

	"github.com/rushteam/ratekit/core"
)

// RecommendFunc 是被评测的推荐函数：基于训练集为用户产出 top-n。
type RecommendFunc func(ctx context.Context, train core.RatingTable, userID int64, n int) ([]*core.Item, error)

// PredictFunc 是评分预测函数，驱动 RMSE/MAE；为空时跳过预测精度评测。
type PredictFunc func(ctx context.Context, train core.RatingTable, userID, itemID int64) (float64, error)

// Options 控制评测行为。
type Options struct {
	// KValues 是截断位置列表；空时取 [5, 10, 20]
	KValues []int

	// RelevanceThreshold 是判定"相关"的评分阈值；0 时取 4.0
	RelevanceThreshold float64
}

// KMetrics 是单个 K 截断下的平均排序指标。
type KMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Report 是一次评测的汇总结果。
// RMSE/MAE 只计算一次（不按 K），覆盖所有预测成功的 (user, item) 对。
type Report struct {
	ByK            map[int]KMetrics `json:"by_k"`
	RMSE           float64          `json:"rmse"`
	MAE            float64          `json:"mae"`
	Predictions    int              `json:"predictions"`
	EvaluatedUsers int              `json:"evaluated_users"`
}

// Evaluate 在 train/test 切分上评测推荐质量。
//
// 对测试集中的每个用户：
//   - 相关集合 = 该用户测试评分 >= 阈值的商品；为空的用户不参与平均
//   - 推荐一次 top-max(K)，在各 K 截断上累积 precision/recall/F1
//   - 推荐失败（包括 NO_RECOMMENDATIONS）的用户跳过，不视为评测失败
func Evaluate(
	ctx context.Context,
	train, test core.RatingTable,
	recommendFn RecommendFunc,
	predictFn PredictFunc,
	opts Options,
) (*Report, error) {
	if recommendFn == nil {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput, "eval: nil recommend func")
	}
	kValues := opts.KValues
	if len(kValues) == 0 {
		kValues = []int{5, 10, 20}
	}
	threshold := opts.RelevanceThreshold
	if threshold == 0 {
		threshold = defaults.DefaultRelevanceThreshold()
	}
	maxK := 0
	for _, k := range kValues {
		if k > maxK {
			maxK = k
		}
	}

	relevantByUser := make(map[int64]map[int64]struct{})
	for _, e := range test {
		if e.Rating < threshold {
			continue
		}
		if relevantByUser[e.UserID] == nil {
			relevantByUser[e.UserID] = make(map[int64]struct{})
		}
		relevantByUser[e.UserID][e.ProductID] = struct{}{}
	}

	sums := make(map[int]*KMetrics, len(kValues))
	for _, k := range kValues {
		sums[k] = &KMetrics{}
	}
	evaluated := 0

	for _, userID := range test.Users() {
		relevant := relevantByUser[userID]
		if len(relevant) == 0 {
			continue
		}
		items, err := recommendFn(ctx, train, userID, maxK)
		if err != nil || len(items) == 0 {
			continue
		}
		recommended := make([]int64, len(items))
		for i, it := range items {
			recommended[i] = it.ID
		}
		for _, k := range kValues {
			sums[k].Precision += PrecisionAtK(recommended, relevant, k)
			sums[k].Recall += RecallAtK(recommended, relevant, k)
			sums[k].F1 += F1AtK(recommended, relevant, k)
		}
		evaluated++
	}

	report := &Report{
		ByK:            make(map[int]KMetrics, len(kValues)),
		EvaluatedUsers: evaluated,
	}
	for _, k := range kValues {
		m := *sums[k]
		if evaluated > 0 {
			m.Precision /= float64(evaluated)
			m.Recall /= float64(evaluated)
			m.F1 /= float64(evaluated)
		}
		report.ByK[k] = m
	}

	if predictFn != nil {
		var actual, predicted []float64
		for _, e := range test {
			p, err := predictFn(ctx, train, e.UserID, e.ProductID)
			if err != nil {
				continue // 无法预测的对不计入
			}
			actual = append(actual, e.Rating)
			predicted = append(predicted, p)
		}
		report.RMSE = RMSE(actual, predicted)
		report.MAE = MAE(actual, predicted)
		report.Predictions = len(actual)
	}
	return report, nil
}
