package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/utils"
)

// Hot 是热门排行的服务态召回源：读取预先物化到存储里的排行，
// 避免线上每次请求都重算 TopN。
//   - Store 实现了 KeyValueStore 时走 ZRange（有序集合，分数即平均评分）
//   - 否则为空或读取失败时退回内存中的 IDs
//
// 排行由 PublishTopN 离线物化（通常定时对 TopN 的输出执行一次）。
type Hot struct {
	Store core.Store
	Key   string  // 存储 key，例如 "hot:products"
	N     int     // 读取条数；<= 0 时取 100
	IDs   []int64 // fallback 内存列表
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	n := r.N
	if n <= 0 {
		n = 100
	}

	var out []*core.Item
	if kv, ok := r.Store.(core.KeyValueStore); ok && r.Key != "" {
		members, err := kv.ZRange(ctx, r.Key, 0, int64(n)-1)
		if err == nil && len(members) > 0 {
			out = make([]*core.Item, 0, len(members))
			for _, m := range members {
				id, err := strconv.ParseInt(m, 10, 64)
				if err != nil {
					continue
				}
				it := core.NewItem(id)
				if score, err := kv.ZScore(ctx, r.Key, m); err == nil {
					it.Score = score
					it.EstimatedRating = score
				}
				it.Rank = len(out) + 1
				it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
				out = append(out, it)
			}
		}
	}

	if len(out) == 0 {
		if len(r.IDs) == 0 {
			return nil, core.ErrEmptyDataset
		}
		out = make([]*core.Item, 0, len(r.IDs))
		for i, id := range r.IDs {
			it := core.NewItem(id)
			it.Rank = i + 1
			it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
			out = append(out, it)
		}
	}
	return out, nil
}

// PublishTopN 把一次 TopN 召回的结果物化到有序集合，供 Hot 在服务态读取。
// member 是商品 ID，score 是平均评分；重复发布覆盖同名 member。
func PublishTopN(ctx context.Context, kv core.KeyValueStore, key string, items []*core.Item) error {
	for _, it := range items {
		if err := kv.ZAdd(ctx, key, it.Score, strconv.FormatInt(it.ID, 10)); err != nil {
			return err
		}
	}
	return nil
}
