// Package recommend 把归一化、相似度、召回、过滤、重排组装成一条可配置的推荐链路。
// "普通推荐"与"归一化推荐"不再是两套分叉代码，差异全部收敛到 Recommender 的字段。
package recommend

import (
	"context"
	"math"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/filter"
	"github.com/rushteam/ratekit/norm"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/utils"
	"github.com/rushteam/ratekit/recall"
	"github.com/rushteam/ratekit/rerank"
	"github.com/rushteam/ratekit/similarity"
)

// Recommender 是基于物品协同过滤的个性化推荐器。
//
// 行为开关：
//   - UseNormalized / Method：先按用户归一化评分再计算相似度，
//     预估分会换算回原始评分尺度并裁剪到 Bounds
//   - MinSimilarity：低于阈值的相似商品不参与加权
//   - FallbackOnEmpty：有历史的用户候选被阈值全部挡掉时，
//     默认返回 NO_RECOMMENDATIONS；打开后改走热门兜底（带 fallback 标签）
//   - Cache：调用方持有的相似度矩阵缓存；评测等反复调用场景建议设置
//
// 冷启动（用户无任何评分）始终走热门兜底，不是错误。
type Recommender struct {
	UseNormalized   bool
	Method          string // 归一化方法，默认 mean_center
	MinSimilarity   float64
	MinRatings      int // 兜底排行的质量下限（评分次数）
	FallbackOnEmpty bool
	Workers         int // 相似度矩阵并行任务数
	Cache           *similarity.Cache
	Bounds          core.RatingBounds // 零值时取 DefaultRatingBounds
}

func (r *Recommender) bounds() core.RatingBounds {
	if r.Bounds == (core.RatingBounds{}) {
		return core.DefaultRatingBounds
	}
	return r.Bounds
}

func (r *Recommender) method() string {
	if r.Method == "" {
		return norm.MethodMeanCenter
	}
	return r.Method
}

// prepare 产出工作表（可能已归一化）与相似度矩阵。
func (r *Recommender) prepare(ctx context.Context, table core.RatingTable) (core.RatingTable, *similarity.UserItemMatrix, *similarity.Matrix, error) {
	work := table
	cacheMethod := "raw"
	if r.UseNormalized {
		var err error
		work, err = norm.Normalize(table, r.method())
		if err != nil {
			return nil, nil, nil, err
		}
		cacheMethod = r.method()
	}

	matrix := similarity.BuildMatrix(work)

	if r.Cache != nil {
		key := r.Cache.Key(table, cacheMethod)
		if sims, ok, err := r.Cache.Get(ctx, key); err != nil {
			return nil, nil, nil, err
		} else if ok {
			return work, matrix, sims, nil
		}
		sims, err := similarity.BuildParallel(ctx, matrix, r.Workers)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := r.Cache.Put(ctx, key, sims); err != nil {
			return nil, nil, nil, err
		}
		return work, matrix, sims, nil
	}

	sims, err := similarity.BuildParallel(ctx, matrix, r.Workers)
	if err != nil {
		return nil, nil, nil, err
	}
	return work, matrix, sims, nil
}

// Recommend 为 userID 生成 top-n 推荐。
// 输入表不被修改；结果按分数降序、商品 ID 升序，Rank 从 1 起始。
func (r *Recommender) Recommend(ctx context.Context, table core.RatingTable, userID int64, n int) ([]*core.Item, error) {
	work, matrix, sims, err := r.prepare(ctx, table)
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: userID}

	// 兜底排行永远基于原始表：归一化分数对排行没有意义
	hot := &recall.TopN{Table: table, MinRatings: r.MinRatings}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.ItemCF{
				Table:         work,
				Matrix:        matrix,
				Sims:          sims,
				MinSimilarity: r.MinSimilarity,
				Fallback:      hot,
			},
			&filter.Node{Filters: []filter.Filter{filter.NewRated(table, userID)}},
			&rerank.TopNNode{N: n},
		},
	}

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		if core.IsNoRecommendations(err) && r.FallbackOnEmpty {
			items, err = r.fallback(ctx, rctx, hot, table, userID, n)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, core.ErrNoRecommendations
	}

	r.estimate(table, userID, items)
	return items, nil
}

// fallback 处理"有历史但候选全部被阈值挡掉"的可配置兜底路径。
func (r *Recommender) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
	hot *recall.TopN,
	table core.RatingTable,
	userID int64,
	n int,
) ([]*core.Item, error) {
	items, err := hot.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel(core.LabelFallback, utils.True(hot.Name()))
	}
	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.Node{Filters: []filter.Filter{filter.NewRated(table, userID)}},
			&rerank.TopNNode{N: n},
		},
	}
	return p.Run(ctx, rctx, items)
}

// estimate 写入原始评分尺度上的预估分。
// 个性化分数在归一化模式下先按该用户的统计量反归一化；
// 兜底结果本身就是原始尺度的平均评分，只做区间裁剪。
func (r *Recommender) estimate(table core.RatingTable, userID int64, items []*core.Item) {
	b := r.bounds()
	var stats map[int64]norm.Stats
	if r.UseNormalized {
		stats = norm.UserStats(table)
	}
	for _, it := range items {
		est := it.Score
		if r.UseNormalized && !it.IsFallback() {
			est = norm.Denormalize(it.Score, stats[userID], r.method())
		}
		it.EstimatedRating = b.Clip(est)
	}
}

// PredictRating 预测 userID 对 itemID 的评分（原始评分尺度）。
// 无法给出预测（冷启动用户、或没有相似商品通过阈值）时返回 NO_RECOMMENDATIONS，
// 评测方据此跳过该 (user, item) 对。
func (r *Recommender) PredictRating(ctx context.Context, table core.RatingTable, userID, itemID int64) (float64, error) {
	_, matrix, sims, err := r.prepare(ctx, table)
	if err != nil {
		return 0, err
	}

	userRatings := matrix.UserRatings(userID)
	if len(userRatings) == 0 {
		return 0, core.ErrNoRecommendations
	}

	var num, den float64
	for ratedItem, rating := range userRatings {
		if ratedItem == itemID {
			continue // 自相似不参与预测
		}
		sim, ok := sims.Get(itemID, ratedItem)
		if !ok || sim < r.MinSimilarity {
			continue
		}
		num += sim * rating
		den += math.Abs(sim)
	}
	if den == 0 {
		return 0, core.ErrNoRecommendations
	}
	score := num / den

	if r.UseNormalized {
		stats := norm.UserStats(table)
		score = norm.Denormalize(score, stats[userID], r.method())
	}
	return r.bounds().Clip(score), nil
}
