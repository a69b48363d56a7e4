package pipeline

import (
	"context"

	"github.com/rushteam/ratekit/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：从评分数据生成候选集
	KindFilter Kind = "filter" // 过滤阶段：剔除已评分/不达标的候选
	KindReRank Kind = "rerank" // 重排阶段：截断并落定名次
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态：召回节点忽略输入生成候选，
// 过滤节点做剔除，重排节点截断并写入名次。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
