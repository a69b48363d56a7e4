package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/ratekit/core"
)

type stubNode struct {
	name string
	kind Kind
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return n.kind }
func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "recall", kind: KindRecall, fn: func(_ []*core.Item) ([]*core.Item, error) {
			return []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}, nil
		}},
		&stubNode{name: "filter", kind: KindFilter, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items[:2], nil
		}},
	}}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Run() = %d items, want 2", len(out))
	}
}

func TestPipeline_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "a", kind: KindRecall, fn: func(_ []*core.Item) ([]*core.Item, error) {
			return nil, boom
		}},
		&stubNode{name: "b", kind: KindFilter, fn: func(items []*core.Item) ([]*core.Item, error) {
			reached = true
			return items, nil
		}},
	}}
	if _, err := p.Run(context.Background(), &core.RecommendContext{}, nil); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if reached {
		t.Error("downstream node ran after error")
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
pipeline:
  name: hot-ranking
  nodes:
    - type: recall.topn
      config:
        days: 30
        n: 10
    - type: rerank.topn
      config:
        n: 5
`)
	cfg, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "hot-ranking" {
		t.Errorf("name = %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[0].Type != "recall.topn" {
		t.Errorf("node type = %q", cfg.Pipeline.Nodes[0].Type)
	}
	if got := cfg.Pipeline.Nodes[0].Config["days"]; got != 30 {
		t.Errorf("days = %v (%T), want 30", got, got)
	}
}

func TestBuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("stub", func(cfg map[string]interface{}) (Node, error) {
		return &stubNode{name: "stub", kind: KindRecall, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items, nil
		}}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "stub"}}
	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "stub" {
		t.Fatalf("unexpected pipeline: %+v", p.Nodes)
	}

	cfg.Pipeline.Nodes = []NodeConfig{{Type: "unknown"}}
	if _, err := cfg.BuildPipeline(factory); err == nil {
		t.Error("BuildPipeline() with unknown type should fail")
	}
}
