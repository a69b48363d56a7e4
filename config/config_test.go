package config

import (
	"context"
	"testing"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/pipeline"
)

func ratingTable() core.RatingTable {
	t0 := int64(1_700_000_000)
	return core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 5, Timestamp: t0},
		{UserID: 1, ProductID: 2, Rating: 1, Timestamp: t0},
		{UserID: 2, ProductID: 1, Rating: 4, Timestamp: t0},
		{UserID: 2, ProductID: 2, Rating: 5, Timestamp: t0},
		{UserID: 2, ProductID: 3, Rating: 5, Timestamp: t0 + 86400},
	}
}

func TestDefaultFactory_BuildsConfiguredPipeline(t *testing.T) {
	data := []byte(`
pipeline:
  name: hot-ranking
  nodes:
    - type: recall.topn
      config:
        days: 10000
    - type: rerank.topn
      config:
        n: 2
`)
	cfg, err := pipeline.ParseYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}
	p, err := cfg.BuildPipeline(DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}

	// 配置驱动的节点从请求上下文取表
	rctx := &core.RecommendContext{
		Params: map[string]any{core.ParamRatingTable: ratingTable()},
	}
	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 1 {
		ids := make([]int64, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		t.Fatalf("Run() = %v, want [3 1]", ids)
	}
	if items[0].Rank != 1 || items[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", items[0].Rank, items[1].Rank)
	}
}

func TestDefaultFactory_ItemCFNode(t *testing.T) {
	data := []byte(`
pipeline:
  name: personalized
  nodes:
    - type: recall.itemcf
      config:
        min_similarity: 0.1
    - type: rerank.topn
      config:
        n: 5
`)
	cfg, err := pipeline.ParseYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.BuildPipeline(DefaultFactory())
	if err != nil {
		t.Fatal(err)
	}
	rctx := &core.RecommendContext{
		UserID: 1,
		Params: map[string]any{core.ParamRatingTable: ratingTable()},
	}
	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("Run() returned %d items, want product 3", len(items))
	}
}

func TestSupportedTypes(t *testing.T) {
	types := SupportedTypes()
	set := make(map[string]bool, len(types))
	for _, typ := range types {
		set[typ] = true
	}
	for _, want := range []string{
		"recall.topn", "recall.itemcf", "recall.hot",
		"filter.expr", "filter.minscore", "rerank.topn",
	} {
		if !set[want] {
			t.Errorf("builtin type %q not registered", want)
		}
	}
}

func TestValidatePipelineConfig_Unsupported(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "recall.magic"}}
	if err := ValidatePipelineConfig(cfg); err == nil {
		t.Error("unsupported node type should fail validation")
	}
	if err := ValidatePipelineConfig(nil); err != nil {
		t.Errorf("nil config should validate, got %v", err)
	}
}
