package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/ratekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的过滤表达式，使用 CEL (Common Expression Language) 实现。
// 表达式编译一次，对每个 Item 重复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.score > 0.7 / item.estimated_rating >= 4.0
//   - 标签：label.recall_source == "topn" / label.fallback == "true"
//   - 逻辑：label.recall_source == "itemcf" && item.score > 0.8
//   - 存在性：label.fallback != null
//
// 注意：CEL 访问不存在的 key 会报错，检查存在性请用 label.key != null。
type Program struct {
	prg cel.Program
}

// Compile 编译表达式。空表达式非法（调用方应直接跳过过滤）。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program: %w", err)
	}
	return &Program{prg: prg}, nil
}

// Eval 对单个 Item 求值，返回布尔结果。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	// label.xxx 直接访问 Label 的 Value，便于写简短的过滤规则
	labelAccessor := make(map[string]any, len(item.Labels))
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labelAccessor[k] = v.Value
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
	}

	itemInput := map[string]any{
		"id":               item.ID,
		"score":            item.Score,
		"estimated_rating": item.EstimatedRating,
		"rank":             item.Rank,
		"labels":           labels,
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		rctxInput["user_id"] = rctx.UserID
		rctxInput["scene"] = rctx.Scene
	}

	return map[string]any{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
