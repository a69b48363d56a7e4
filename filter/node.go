package filter

import (
	"context"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/utils"
)

// Node 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器命中，该候选就被剔除，并打上 filtered 标签记录原因。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string {
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		dropped := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, err
			}
			if hit {
				item.PutLabel("filtered", utils.Label{Value: "true", Source: f.Name()})
				dropped = true
				break
			}
		}
		if !dropped {
			out = append(out, item)
		}
	}
	return out, nil
}
