package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/utils"
)

const secondsPerDay = 86400

// TopN 是热门召回源：在最近的时间窗口内按平均评分聚合排行。
//
// 排序规则（确定性）：
//  1. 平均评分降序
//  2. 评分次数降序
//  3. 商品 ID 升序
//
// 窗口以表内最大时间戳为参照：max_ts - days*86400 <= ts <= max_ts（含下界）。
// 窗口过滤后没有事件时返回 EMPTY_DATASET。
type TopN struct {
	// Table 是数据表；为空时从 RecommendContext 取（配置驱动场景）
	Table core.RatingTable

	// Days 是窗口天数；<= 0 表示不限窗口
	Days int

	// N 是返回条数；<= 0 表示全部返回
	N int

	// MinRatings 是可选的质量下限：评分次数不足的商品不进排行
	MinRatings int
}

func (r *TopN) Name() string        { return "recall.topn" }
func (r *TopN) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略上游输入直接召回。
func (r *TopN) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *TopN) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	table := r.Table
	if table == nil {
		table = rctx.Table()
	}

	maxTS, ok := table.MaxTimestamp()
	if !ok {
		return nil, core.ErrEmptyDataset
	}

	window := table
	if r.Days > 0 {
		span := int64(r.Days) * secondsPerDay
		// 溢出说明窗口大于整个时间轴，等价于不限窗口
		if span/secondsPerDay == int64(r.Days) {
			cutoff := maxTS - span
			window = table.Filter(func(e core.RatingEvent) bool {
				return e.Timestamp >= cutoff
			})
		}
	}
	if len(window) == 0 {
		return nil, core.ErrEmptyDataset
	}

	type agg struct {
		product int64
		sum     float64
		count   int
	}
	byProduct := make(map[int64]*agg)
	for _, e := range window {
		a, ok := byProduct[e.ProductID]
		if !ok {
			a = &agg{product: e.ProductID}
			byProduct[e.ProductID] = a
		}
		a.sum += e.Rating
		a.count++
	}

	ranked := make([]*agg, 0, len(byProduct))
	for _, a := range byProduct {
		if a.count < r.MinRatings {
			continue
		}
		ranked = append(ranked, a)
	}
	if len(ranked) == 0 {
		return nil, core.ErrEmptyDataset
	}

	sort.Slice(ranked, func(i, j int) bool {
		mi := ranked[i].sum / float64(ranked[i].count)
		mj := ranked[j].sum / float64(ranked[j].count)
		if mi != mj {
			return mi > mj
		}
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].product < ranked[j].product
	})

	if r.N > 0 && len(ranked) > r.N {
		ranked = ranked[:r.N]
	}

	out := make([]*core.Item, 0, len(ranked))
	for i, a := range ranked {
		mean := a.sum / float64(a.count)
		it := core.NewItem(a.product)
		it.Score = mean
		it.EstimatedRating = mean
		it.Rank = i + 1
		it.PutLabel("recall_source", utils.Label{Value: "topn", Source: "recall"})
		it.PutLabel("rating_count", utils.Label{Value: strconv.Itoa(a.count), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
