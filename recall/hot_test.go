package recall

import (
	"context"
	"testing"

	"github.com/rushteam/ratekit/core"
	"github.com/rushteam/ratekit/store"
)

func TestHot_ServesPublishedRanking(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	// 离线物化一次 TopN，再从存储读出来
	published, err := (&TopN{Table: rankingTable()}).Recall(ctx, &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if err := PublishTopN(ctx, ms, "hot:products", published); err != nil {
		t.Fatalf("PublishTopN() error = %v", err)
	}

	r := &Hot{Store: ms, Key: "hot:products", N: 2}
	items, err := r.Recall(ctx, &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("Recall() = %v, want [3 1]", got)
	}
	if items[0].Score != 5.0 {
		t.Errorf("score = %f, want 5.0", items[0].Score)
	}
	if lbl, ok := items[0].GetLabel("recall_source"); !ok || lbl.Value != "hot" {
		t.Errorf("recall_source label = %+v, %v", lbl, ok)
	}
}

func TestHot_FallbackIDs(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()

	// 存储里没有排行：退回内存列表
	r := &Hot{Store: ms, Key: "hot:missing", IDs: []int64{7, 8}}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("Recall() = %v, want [7 8]", got)
	}
}

func TestHot_Empty(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()

	r := &Hot{Store: ms, Key: "hot:missing"}
	_, err := r.Recall(context.Background(), &core.RecommendContext{})
	if !core.IsEmptyDataset(err) {
		t.Fatalf("Recall() error = %v, want EMPTY_DATASET", err)
	}
}
