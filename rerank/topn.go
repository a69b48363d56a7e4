package rerank

import (
	"context"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
)

// TopNNode 是重排尾端的截断节点：保留前 N 个候选并落定 1 起始的名次。
// 名次在这里统一写入，召回阶段的临时名次在过滤后可能已有空洞。
type TopNNode struct {
	// N 要保留的候选数量；N <= 0 表示不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N > 0 && len(items) > n.N {
		items = items[:n.N]
	}
	for i, it := range items {
		it.Rank = i + 1
	}
	return items, nil
}
