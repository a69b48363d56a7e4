package config

import (
	"github.com/rushteam/ratekit/filter"
	"github.com/rushteam/ratekit/pipeline"
	"github.com/rushteam/ratekit/pkg/conv"
	"github.com/rushteam/ratekit/recall"
	"github.com/rushteam/ratekit/rerank"
)

// 内置 Node 的构建器。配置驱动的召回节点在构造期拿不到评分表，
// 运行时从 RecommendContext 的 Params 取表（见 core.ParamRatingTable）。
func init() {
	Register("recall.topn", buildTopNNode)
	Register("recall.itemcf", buildItemCFNode)
	Register("recall.hot", buildHotNode)
	Register("filter.expr", buildExprFilterNode)
	Register("filter.minscore", buildMinScoreFilterNode)
	Register("rerank.topn", buildRerankTopNNode)
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.TopN{
		Days:       conv.ConfigGetInt(cfg, "days", 0),
		N:          conv.ConfigGetInt(cfg, "n", 0),
		MinRatings: conv.ConfigGetInt(cfg, "min_ratings", 0),
	}, nil
}

func buildItemCFNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.ItemCF{
		MinSimilarity: conv.ConfigGetFloat64(cfg, "min_similarity", 0),
		N:             conv.ConfigGetInt(cfg, "n", 0),
		Workers:       conv.ConfigGetInt(cfg, "workers", 0),
	}, nil
}

func buildHotNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.Hot{
		Key: conv.ConfigGet(cfg, "key", ""),
		N:   conv.ConfigGetInt(cfg, "n", 0),
		IDs: conv.SliceAnyToInt64(cfg["ids"]),
	}, nil
}

func buildExprFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.Node{
		Filters: []filter.Filter{
			&filter.Expr{Expression: conv.ConfigGet(cfg, "expression", "")},
		},
	}, nil
}

func buildMinScoreFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.Node{
		Filters: []filter.Filter{
			&filter.MinScore{Min: conv.ConfigGetFloat64(cfg, "min", 0)},
		},
	}, nil
}

func buildRerankTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
