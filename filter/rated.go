package filter

import (
	"context"

	"github.com/rushteam/ratekit/core"
)

// Rated 剔除目标用户已经评过分的商品。
// 个性化召回本身不会产出已评分商品；这一层兜住 fallback 路径——
// 热门排行不看用户历史，可能把用户早就买过的商品排进来。
type Rated struct {
	ratings map[int64]float64
}

// NewRated 从评分表构建指定用户的已评分过滤器。
func NewRated(table core.RatingTable, userID int64) *Rated {
	return &Rated{ratings: table.UserRatings(userID)}
}

func (f *Rated) Name() string { return "filter.rated" }

func (f *Rated) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	_, rated := f.ratings[item.ID]
	return rated, nil
}
