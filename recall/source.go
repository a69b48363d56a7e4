package recall

import (
	"context"

	"github.com/rushteam/ratekit/core"
)

// Source 表示一个可复用的召回源（热门排行 / 物品协同过滤 / ...）。
// 召回源既可以单独调用，也可以作为 Node 放进 Pipeline。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
