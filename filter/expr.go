package filter

import (
	"context"
	"sync"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pkg/dsl"
)

// Expr 是表达式过滤器：CEL 表达式求值为 true 的候选被剔除。
//
// 示例：
//   - `item.score < 0.3`                      → 剔除低分候选
//   - `label.fallback == "true"`              → 剔除兜底结果
//   - `label.recall_source == "hot" && item.score < 4.0`
//
// 表达式首次使用时编译并缓存。
type Expr struct {
	// Expression 是 CEL 表达式；为空时不过滤任何候选
	Expression string

	once sync.Once
	prg  *dsl.Program
	err  error
}

func (f *Expr) Name() string { return "filter.expr" }

func (f *Expr) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expression == "" {
		return false, nil
	}
	f.once.Do(func() {
		f.prg, f.err = dsl.Compile(f.Expression)
	})
	if f.err != nil {
		return false, f.err
	}
	return f.prg.Eval(item, rctx)
}
