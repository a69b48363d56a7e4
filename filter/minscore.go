package filter

import (
	"context"

	"github.com/rushteam/ratekit/core"
)

// MinScore 剔除分数低于下限的候选。
type MinScore struct {
	Min float64
}

func (f *MinScore) Name() string { return "filter.minscore" }

func (f *MinScore) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	return item.Score < f.Min, nil
}
