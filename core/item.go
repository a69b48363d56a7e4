package core

import "github.com/rushteam/ratekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：一条候选推荐及其打分与解释信息。
// Score 用于排序决策；EstimatedRating 是换算回原始评分尺度后的预估分；
// Labels 用于解释与策略驱动（召回来源、是否 fallback 等）。
type Item struct {
	ID              int64
	Score           float64
	EstimatedRating float64
	Rank            int // 1 起始的最终名次，由 rerank 阶段写入
	Labels          map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// LabelFallback 标记该结果来自冷启动 fallback 路径（见 recall 包）。
// 冷启动不是错误：调用方通过该 label 区分个性化结果与热门兜底结果。
const LabelFallback = "fallback"

// IsFallback 判断该条结果是否来自 fallback 路径。
func (it *Item) IsFallback() bool {
	lbl, ok := it.Labels[LabelFallback]
	return ok && lbl.IsTrue()
}
