package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/utils"
	"github.com/rushteam/ratekit/similarity"
)

// ItemCF 是基于物品的协同过滤召回源（Item-based Collaborative Filtering, i2i）。
//
// 核心思想："被同一批用户喜欢的物品，相互相似"
//
// 算法流程：
//  1. 构建用户×商品矩阵与商品相似度矩阵（或接受预计算结果）
//  2. 对目标用户未评分的每个候选商品，按相似度加权其已评分商品：
//     score(c) = Σ sim(c,r)·rating(r) / Σ |sim(c,r)|，只计入 sim >= MinSimilarity 的 r
//  3. 分母为 0 的候选直接剔除（不是记 0 分）
//  4. 按分数降序、商品 ID 升序排序
//
// 冷启动：目标用户没有任何评分时委托给 Fallback（默认为全表 TopN），
// 结果带 fallback 标签，调用方可以区分兜底输出与个性化输出。
// 候选全部被阈值挡掉时返回 NO_RECOMMENDATIONS，是否继续兜底由调用方决定。
type ItemCF struct {
	// Table 是数据表；为空时从 RecommendContext 取
	Table core.RatingTable

	// Matrix / Sims 是可选的预计算结果；语义必须与从 Table 重建一致
	Matrix *similarity.UserItemMatrix
	Sims   *similarity.Matrix

	// MinSimilarity 是参与加权的最低相似度
	MinSimilarity float64

	// N 是返回条数；<= 0 表示全部返回
	N int

	// Workers 是相似度矩阵的并行计算任务数；<= 1 时串行
	Workers int

	// Fallback 是冷启动兜底召回源；为空时用全表 TopN
	Fallback Source
}

func (r *ItemCF) Name() string        { return "recall.itemcf" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口。
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	table := r.Table
	if table == nil {
		table = rctx.Table()
	}

	matrix := r.Matrix
	if matrix == nil {
		matrix = similarity.BuildMatrix(table)
	}

	userRatings := matrix.UserRatings(rctx.UserID)
	if len(userRatings) == 0 {
		return r.fallback(ctx, rctx, table)
	}

	sims := r.Sims
	if sims == nil {
		var err error
		sims, err = similarity.BuildParallel(ctx, matrix, r.Workers)
		if err != nil {
			return nil, err
		}
	}

	scores := ScoreCandidates(matrix, sims, userRatings, r.MinSimilarity)
	if len(scores) == 0 {
		return nil, core.ErrNoRecommendations
	}

	candidates := make([]int64, 0, len(scores))
	for id := range scores {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i]], scores[candidates[j]]
		if si != sj {
			return si > sj
		}
		return candidates[i] < candidates[j]
	})

	if r.N > 0 && len(candidates) > r.N {
		candidates = candidates[:r.N]
	}

	out := make([]*core.Item, 0, len(candidates))
	for i, id := range candidates {
		it := core.NewItem(id)
		it.Score = scores[id]
		it.EstimatedRating = scores[id]
		it.Rank = i + 1
		it.PutLabel("recall_source", utils.Label{Value: "itemcf", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// ScoreCandidates 对目标用户未评分的每个商品计算相似度加权分。
// 没有任何已评分商品通过阈值（分母为 0）的候选不会出现在结果里。
// 候选与已评分商品必然不同，自相似 sim(i,i) 不参与加权。
func ScoreCandidates(
	matrix *similarity.UserItemMatrix,
	sims *similarity.Matrix,
	userRatings map[int64]float64,
	minSimilarity float64,
) map[int64]float64 {
	scores := make(map[int64]float64)
	for _, candidate := range matrix.Items() {
		if _, rated := userRatings[candidate]; rated {
			continue
		}
		var num, den float64
		for ratedItem, rating := range userRatings {
			sim, ok := sims.Get(candidate, ratedItem)
			if !ok || sim < minSimilarity {
				continue
			}
			num += sim * rating
			den += math.Abs(sim)
		}
		if den > 0 {
			scores[candidate] = num / den
		}
	}
	return scores
}

func (r *ItemCF) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	table core.RatingTable,
) ([]*core.Item, error) {
	fb := r.Fallback
	if fb == nil {
		fb = &TopN{Table: table, N: r.N}
	}
	items, err := fb.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel(core.LabelFallback, utils.True(fb.Name()))
	}
	return items, nil
}
